package dnd

import (
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/insert"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// End finalizes the gesture. It always returns [Idle]; the outcome holds
// the actions to dispatch, or a rejection. Releasing outside any droppable
// yields an empty outcome.
func (m *Machine) End(s State, t tree.Tree, ev EndEvent) (State, insert.Outcome) {
	d, ok := s.(*Dragging)
	if !ok || d == nil || ev.Over == nil {
		return Idle{}, insert.Outcome{}
	}

	target, err := m.ResolveTarget(t, d, *ev.Over)
	if err != nil {
		return Idle{}, rejectedOutcome(err)
	}
	if d.Tab != nil && target.ParentID != "" && d.Tab.ParentID == target.ParentID {
		target.Tab = ptr(d.Tab.Tab)
	}

	var out insert.Outcome
	switch p := d.Payload; p.From {
	case FromPalette:
		out = m.inserter.Palette(t, p.Type, target)
	case FromLibrary:
		out = m.inserter.Library(t, p.Templates, target)
	case FromCanvas:
		out = m.inserter.Move(t, insert.Source{ID: p.ID, ParentID: p.ParentID, Index: p.Index, Type: p.Type}, target)
	default:
		out = rejectedOutcome(perrors.New(perrors.ErrCodeInvalidInput, "Unknown drag source %q", p.From))
	}

	if out.OK() {
		m.Logger.Debug("drop", "from", d.Payload.From, "parent", target.ParentID, "index", target.Index, "actions", len(out.Actions))
	} else {
		m.Logger.Debug("drop rejected", "from", d.Payload.From, "err", out.Rejected)
	}
	return Idle{}, out
}

func rejectedOutcome(err error) insert.Outcome {
	return insert.Outcome{Rejected: err, Announce: perrors.UserMessage(err)}
}

// ResolveTarget computes the final insertion point for a release over over:
//
//   - the canvas appends at the top level;
//   - a container droppable appends inside that container, or uses the
//     index tracked while hovering the same container;
//   - a droppable that declares its parent uses that parent and its
//     declared index;
//   - a node that is itself a container receives the drop as its last
//     child;
//   - any other node is replaced in its real parent, at its position.
func (m *Machine) ResolveTarget(t tree.Tree, d *Dragging, over Over) (insert.Target, error) {
	if over.ID == CanvasID {
		return insert.Target{Index: len(t)}, nil
	}

	if parentID, ok := ContainerOf(over.ID); ok {
		children, found := tree.ChildrenOf(t, parentID)
		if !found {
			if tree.FindByID(t, parentID) == nil {
				return insert.Target{}, perrors.New(perrors.ErrCodeNotFound, "Container %s not found", parentID)
			}
			return insert.Target{ParentID: parentID}, nil
		}
		index := len(children)
		if d != nil && d.InsertIndex != nil && d.InsertParentID == parentID {
			index = tree.UnderlyingIndex(children, m.Flags, m.Preview, *d.InsertIndex)
		}
		return insert.Target{ParentID: parentID, Index: index}, nil
	}

	if over.Parent != nil {
		index := 0
		if over.Index != nil {
			index = *over.Index
		}
		return insert.Target{ParentID: *over.Parent, Index: index}, nil
	}

	if c, ok := tree.FindByID(t, over.ID).(*tree.Container); ok {
		return insert.Target{ParentID: c.ID, Index: len(c.Children)}, nil
	}
	loc, ok := tree.Locate(t, over.ID)
	if !ok {
		return insert.Target{}, perrors.New(perrors.ErrCodeNotFound, "Drop target %s not found", over.ID)
	}
	return insert.Target{ParentID: loc.ParentID, Index: loc.Index}, nil
}
