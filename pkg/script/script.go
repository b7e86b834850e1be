package script

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pagebuilder/pkg/dnd"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/insert"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Script is a recorded sequence of gesture steps.
type Script struct {
	// Page optionally names the page the script was recorded against.
	Page  string `yaml:"page,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Step is a single scripted event. Exactly one field is set.
type Step struct {
	Start   *Start         `yaml:"start,omitempty"`
	Move    *dnd.MoveEvent `yaml:"move,omitempty"`
	Tab     *Tab           `yaml:"tab,omitempty"`
	End     *dnd.EndEvent  `yaml:"end,omitempty"`
	Cancel  bool           `yaml:"cancel,omitempty"`
	Insert  *Insert        `yaml:"insert,omitempty"`
	Reorder *Reorder       `yaml:"reorder,omitempty"`
	Undo    bool           `yaml:"undo,omitempty"`
	Redo    bool           `yaml:"redo,omitempty"`
}

// Start begins a gesture.
type Start struct {
	dnd.Payload `yaml:",inline"`
	Templates   []Node `yaml:"templates,omitempty"`
}

// Tab hovers a tab header of a tabbed container.
type Tab struct {
	Parent string `yaml:"parent"`
	Tab    int    `yaml:"tab"`
}

// Insert is a click-to-insert request. Exactly one of Type, Templates and
// Asset is set.
type Insert struct {
	Type      tree.Type      `yaml:"type,omitempty"`
	Templates []Node         `yaml:"templates,omitempty"`
	Asset     *insert.Asset  `yaml:"asset,omitempty"`
	Selection []string       `yaml:"selection,omitempty"`
	Marker    *insert.Target `yaml:"marker,omitempty"`
}

// Reorder moves a node one position among its siblings.
type Reorder struct {
	ID  string `yaml:"id"`
	Dir string `yaml:"dir"`
}

// Node is a tree node decoded from its YAML object form, which mirrors the
// JSON node encoding.
type Node struct {
	tree.Node
}

// UnmarshalYAML decodes a node object.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	node, err := tree.DecodeNode(data)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	n.Node = node
	return nil
}

func nodes(in []Node) []tree.Node {
	if len(in) == 0 {
		return nil
	}
	out := make([]tree.Node, len(in))
	for i, n := range in {
		out[i] = n.Node
	}
	return out
}

// Kind returns the name of the step's event, or "" when no event is set.
func (s Step) Kind() string {
	switch {
	case s.Start != nil:
		return "start"
	case s.Move != nil:
		return "move"
	case s.Tab != nil:
		return "tab"
	case s.End != nil:
		return "end"
	case s.Cancel:
		return "cancel"
	case s.Insert != nil:
		return "insert"
	case s.Reorder != nil:
		return "reorder"
	case s.Undo:
		return "undo"
	case s.Redo:
		return "redo"
	}
	return ""
}

func (s Step) count() int {
	n := 0
	for _, set := range []bool{
		s.Start != nil, s.Move != nil, s.Tab != nil, s.End != nil, s.Cancel,
		s.Insert != nil, s.Reorder != nil, s.Undo, s.Redo,
	} {
		if set {
			n++
		}
	}
	return n
}

// Validate checks that every step sets exactly one event with usable
// arguments.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		if n := st.count(); n != 1 {
			return perrors.New(perrors.ErrCodeInvalidInput, "step %d: want exactly one event, got %d", i+1, n)
		}
		switch {
		case st.Start != nil:
			if !st.Start.From.Valid() {
				return perrors.New(perrors.ErrCodeInvalidInput, "step %d: unknown drag source %q", i+1, st.Start.From)
			}
		case st.Insert != nil:
			set := 0
			if st.Insert.Type != "" {
				set++
			}
			if len(st.Insert.Templates) > 0 {
				set++
			}
			if st.Insert.Asset != nil {
				set++
			}
			if set != 1 {
				return perrors.New(perrors.ErrCodeInvalidInput, "step %d: insert needs exactly one of type, templates, asset", i+1)
			}
		case st.Reorder != nil:
			if _, err := direction(st.Reorder.Dir); err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "step %d", i+1)
			}
		}
	}
	return nil
}

// Parse decodes and validates a YAML script.
func Parse(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "parse script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a YAML script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}
