package dnd

import (
	"github.com/matzehuels/pagebuilder/pkg/geom"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// State is the state of a gesture: [Idle] or *[Dragging].
type State interface {
	isState()
}

// Idle is the state between gestures.
type Idle struct{}

// TabHover records the tab header last hovered during a gesture.
type TabHover struct {
	ParentID string `json:"parentId"`
	Tab      int    `json:"tab"`
}

// Dragging is the state of an active gesture. It is recomputed on every
// move and discarded when the gesture ends.
type Dragging struct {
	Payload Payload
	// Pointer is the raw screen position of the last move.
	Pointer geom.Point
	// HoverID is the droppable under the pointer, "" when there is none.
	HoverID string
	// InsertParentID and InsertIndex are the computed insertion point. The
	// index counts visible nodes only; nil means no insertion point.
	InsertParentID string
	InsertIndex    *int
	// DropAllowed is nil when indeterminate.
	DropAllowed *bool
	// SnapX and SnapY are the grid-snapped canvas coordinates of the
	// pointer, used for the snap guide.
	SnapX, SnapY *float64
	Tab          *TabHover
}

func (Idle) isState()      {}
func (*Dragging) isState() {}

// Feedback is the host-facing view of a state. All fields are zero or nil
// when idle.
type Feedback struct {
	Active         bool      `json:"active"`
	ActiveType     tree.Type `json:"activeType,omitempty"`
	HoverID        string    `json:"hoverId,omitempty"`
	InsertParentID string    `json:"insertParentId,omitempty"`
	InsertIndex    *int      `json:"insertIndex"`
	DropAllowed    *bool     `json:"dropAllowed"`
	SnapX          *float64  `json:"snapX"`
	SnapY          *float64  `json:"snapY"`
}

// FeedbackOf returns the feedback for s.
func FeedbackOf(s State) Feedback {
	d, ok := s.(*Dragging)
	if !ok || d == nil {
		return Feedback{}
	}
	return Feedback{
		Active:         true,
		ActiveType:     d.Payload.ActiveType(),
		HoverID:        d.HoverID,
		InsertParentID: d.InsertParentID,
		InsertIndex:    d.InsertIndex,
		DropAllowed:    d.DropAllowed,
		SnapX:          d.SnapX,
		SnapY:          d.SnapY,
	}
}

func ptr[T any](v T) *T { return &v }
