package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// ReadJSON decodes a page from r.
//
// The input is either a page object or a bare array of components. The
// decoded tree is normalized and validated with opts; a tree that fails
// validation is returned as an error, never partially.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader, opts tree.ValidateOptions) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var p Page
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &p.Components); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidTree, err, "decode components")
		}
	} else {
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidTree, err, "decode page")
		}
	}
	if p.Components == nil {
		p.Components = tree.Tree{}
	}

	p.Components = tree.Normalize(p.Components, opts)
	if err := tree.Validate(p.Components, opts); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidTree, err, "invalid page %s", p.ID)
	}
	return &p, nil
}

// ImportJSON reads the page file at path. A page without an id takes the
// file name without extension.
func ImportJSON(path string, opts tree.ValidateOptions) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadJSON(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.ID == "" {
		p.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}
