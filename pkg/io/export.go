package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Page is a page document.
type Page struct {
	ID         string    `json:"id,omitempty"`
	Components tree.Tree `json:"components"`
}

// WriteJSON encodes p as indented JSON and writes it to w.
func WriteJSON(p *Page, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes p to the file at path.
func ExportJSON(p *Page, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
