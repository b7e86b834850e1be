package editor

import (
	"encoding/json"
	"fmt"

	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// DefaultGridCols is the column count of the layout grid of a new page.
const DefaultGridCols = 12

// History is the persisted editing state of a page.
type History struct {
	Past     []tree.Tree      `json:"past"`
	Present  tree.Tree        `json:"present"`
	Future   []tree.Tree      `json:"future"`
	GridCols int              `json:"gridCols"`
	Editor   tree.EditorFlags `json:"editor"`
}

// NewHistory returns a history whose present is t.
func NewHistory(t tree.Tree) *History {
	if t == nil {
		t = tree.Tree{}
	}
	return &History{
		Past:     []tree.Tree{},
		Present:  t,
		Future:   []tree.Tree{},
		GridCols: DefaultGridCols,
		Editor:   tree.EditorFlags{},
	}
}

// CanUndo reports whether there is a step to undo.
func (h *History) CanUndo() bool { return len(h.Past) > 0 }

// CanRedo reports whether there is a step to redo.
func (h *History) CanRedo() bool { return len(h.Future) > 0 }

// Validate checks the present tree and the grid size.
func (h *History) Validate(opts tree.ValidateOptions) error {
	if h.GridCols <= 0 {
		return perrors.New(perrors.ErrCodeInvalidTree, "grid columns must be positive, got %d", h.GridCols)
	}
	if err := tree.Validate(h.Present, opts); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidTree, err, "present tree is invalid")
	}
	return nil
}

// migrate normalizes every snapshot.
func (h *History) migrate(opts tree.ValidateOptions) {
	h.Present = tree.Normalize(h.Present, opts)
	for i := range h.Past {
		h.Past[i] = tree.Normalize(h.Past[i], opts)
	}
	for i := range h.Future {
		h.Future[i] = tree.Normalize(h.Future[i], opts)
	}
}

// DecodeHistory parses a stored history, filling defaults for missing
// fields.
func DecodeHistory(data []byte) (*History, error) {
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidTree, err, "decode history")
	}
	if h.Present == nil {
		h.Present = tree.Tree{}
	}
	if h.Past == nil {
		h.Past = []tree.Tree{}
	}
	if h.Future == nil {
		h.Future = []tree.Tree{}
	}
	if h.GridCols == 0 {
		h.GridCols = DefaultGridCols
	}
	if h.Editor == nil {
		h.Editor = tree.EditorFlags{}
	}
	return &h, nil
}

// Encode returns the JSON encoding of h.
func (h *History) Encode() ([]byte, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}
