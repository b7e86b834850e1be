// Package dnd implements the drag-and-drop interaction engine of the page
// builder.
//
// # State machine
//
// A gesture is modelled as a small state machine:
//
//	Idle --Start--> Dragging --Move/HoverTab--> Dragging
//	Dragging --End--> Idle (+ actions or a rejection)
//	Dragging --Cancel--> Idle (no actions)
//
// [Machine] advances it with pure transition functions. Each call takes the
// current [State], the current tree snapshot and an event, and returns the
// next state. Every [Machine.Move] recomputes the session from scratch: the
// snapped pointer, the hovered droppable, the insertion point and the
// drop-allowed flag never depend on the previous tick, so a document that
// changes mid-drag cannot make the session drift.
//
// # Droppables
//
// The droppable under the pointer is described by an [Over]. Its ID is one
// of:
//
//   - [CanvasID]: the page surface itself, meaning "append at top level"
//   - [ContainerDropID](p): the empty area of container p, meaning "append
//     inside p"
//   - a node id: an existing node, the insertion point is before or after
//     it depending on the pointer's position relative to its midpoint
//
// # Drop-allowed
//
// [Dragging.DropAllowed] is a tri-state: true and false come from the
// placement rules, nil means indeterminate (nothing to check, or the target
// could not be resolved). Hosts render nil as neutral and false as blocking.
//
// # Finalizing
//
// [Machine.End] resolves the final target, validates it and returns an
// [insert.Outcome] holding the actions to dispatch or a rejection.
// [Controller] wraps the machine for imperative hosts: it keeps the current
// state, dispatches accepted actions and reports rejections and
// announcements.
package dnd
