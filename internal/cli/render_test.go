package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagebuilder/pkg/config"
	"github.com/matzehuels/pagebuilder/pkg/io"
	"github.com/matzehuels/pagebuilder/pkg/rules"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid dot", []string{"dot"}, false},
		{"valid all", []string{"dot", "svg", "pdf", "png"}, false},
		{"invalid format", []string{"json"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derived from input", "", "pages/home.json", "pages/home"},
		{"strips format extension", "out/home.svg", "home.json", "out/home"},
		{"keeps unknown extension", "out/home.v2", "home.json", "out/home.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	single := &renderOpts{output: "out.svg", formats: []string{"svg"}}
	if got := outputPath(single, "home.json", "svg"); got != "out.svg" {
		t.Errorf("single format path = %q, want out.svg", got)
	}
	multi := &renderOpts{output: "out.svg", formats: []string{"svg", "dot"}}
	if got := outputPath(multi, "home.json", "dot"); got != "out.dot" {
		t.Errorf("multi format path = %q, want out.dot", got)
	}
}

func TestRunRenderCachesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "home.json")
	writeSamplePage(t, input)

	var logs bytes.Buffer
	c := New(&logs, log.DebugLevel)
	c.cfg = config.Default()
	c.cfg.Cache.Dir = filepath.Join(dir, "cache")

	ctx := withLogger(context.Background(), c.Logger)
	opts := &renderOpts{formats: []string{"dot"}}
	if err := c.runRender(ctx, input, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "home.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"n:hero"`) {
		t.Errorf("DOT output missing hero node:\n%s", data)
	}
	if strings.Contains(logs.String(), "Using cached") {
		t.Fatal("first render was served from cache")
	}

	if err := c.runRender(ctx, input, opts); err != nil {
		t.Fatalf("second runRender: %v", err)
	}
	if !strings.Contains(logs.String(), "Using cached dot") {
		t.Errorf("second render not served from cache:\n%s", logs.String())
	}
}

func writeSamplePage(t *testing.T, path string) {
	t.Helper()
	const page = `{
  "id": "home",
  "components": [
    {"id": "hero", "type": "Section", "children": [
      {"id": "title", "type": "Text", "text": "Hi"},
      {"id": "cta", "type": "Button"}
    ]}
  ]
}`
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ImportJSON(path, validateOptions(rules.Default())); err != nil {
		t.Fatalf("sample page invalid: %v", err)
	}
}
