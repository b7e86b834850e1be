package dnd

import (
	"strings"

	"github.com/matzehuels/pagebuilder/pkg/geom"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// From identifies where a dragged item comes from.
type From string

const (
	FromPalette From = "palette"
	FromLibrary From = "library"
	FromCanvas  From = "canvas"
)

// Valid reports whether f is a known source.
func (f From) Valid() bool {
	return f == FromPalette || f == FromLibrary || f == FromCanvas
}

// Payload describes what is being dragged.
type Payload struct {
	From From `json:"from" yaml:"from"`
	// Type is the block type to create (palette) or a hint for the moving
	// node's type (canvas).
	Type tree.Type `json:"type,omitempty" yaml:"type,omitempty"`
	// Templates are the subtrees to clone (library).
	Templates []tree.Node `json:"-" yaml:"-"`
	// ID, ParentID and Index locate the node being moved (canvas).
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	ParentID string `json:"parentId,omitempty" yaml:"parent,omitempty"`
	Index    int    `json:"index,omitempty" yaml:"index,omitempty"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
}

// ActiveType returns the type shown for the dragged item: the palette type,
// the first template's type, or the canvas type hint.
func (p Payload) ActiveType() tree.Type {
	if p.From == FromLibrary {
		if len(p.Templates) > 0 && p.Templates[0] != nil {
			return p.Templates[0].NodeType()
		}
		return ""
	}
	return p.Type
}

// Droppable id conventions.
const (
	CanvasID        = "canvas"
	ContainerPrefix = "container-"
)

// ContainerDropID returns the droppable id of the empty area of container id.
func ContainerDropID(id string) string { return ContainerPrefix + id }

// ContainerOf returns the container id named by a container droppable id.
func ContainerOf(overID string) (string, bool) {
	if !strings.HasPrefix(overID, ContainerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(overID, ContainerPrefix), true
}

// Over describes the droppable under the pointer.
type Over struct {
	ID string `json:"id" yaml:"id"`
	// Rect is the droppable's bounding box in screen coordinates.
	Rect geom.Rect `json:"rect" yaml:"rect"`
	// Index is the droppable's declared position among its siblings.
	Index *int `json:"index,omitempty" yaml:"index,omitempty"`
	// Parent is the droppable's declared parent ("" for top level). Nil
	// means the droppable did not declare one.
	Parent *string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// MoveEvent is a pointer move during a gesture.
type MoveEvent struct {
	// Activator is the screen position where the gesture started and Delta
	// the movement accumulated since.
	Activator geom.Point `json:"activator" yaml:"activator"`
	Delta     geom.Point `json:"delta" yaml:"delta"`
	// Canvas is the canvas bounding box in screen coordinates, if known. An
	// empty box counts as unknown.
	Canvas *geom.Rect `json:"canvas,omitempty" yaml:"canvas,omitempty"`
	Over   *Over      `json:"over,omitempty" yaml:"over,omitempty"`
}

// Pointer returns the raw screen position of the pointer.
func (e MoveEvent) Pointer() geom.Point { return e.Activator.Add(e.Delta) }

// EndEvent is the release of a gesture.
type EndEvent struct {
	Over *Over `json:"over,omitempty" yaml:"over,omitempty"`
}
