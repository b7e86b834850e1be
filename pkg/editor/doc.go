// Package editor holds the editing state of one page: the current tree, its
// undo history, editor-only flags and the selection.
//
// A [Document] is the host of a drag controller: it implements dnd.Host, so
// actions emitted by a gesture land in [Document.Dispatch], which applies
// them atomically, records an undo step and persists the history through a
// [Store].
//
// # History
//
// History follows the past/present/future model. Every successful dispatch
// pushes the previous present onto the past stack and clears the future;
// [Document.Undo] and [Document.Redo] move one step back and forth. Trees are
// immutable snapshots, so consecutive history entries share untouched
// subtrees.
//
// # Persistence
//
// A [Store] saves the whole [History] as JSON in a cache.Cache under
// "page-builder-history-<pageID>". [Open] restores a stored history when one
// exists and falls back to the initial tree when the stored value is
// missing or invalid.
package editor
