package tree

import "slices"

// NodeFlags holds editor-only flags for a node. They are kept beside the
// tree by the editor and never written into node attributes.
type NodeFlags struct {
	Hidden []Viewport `json:"hidden,omitempty"`
	Locked bool       `json:"locked,omitempty"`
	Name   string     `json:"name,omitempty"`
}

// EditorFlags maps node ids to their editor flags.
type EditorFlags map[string]NodeFlags

// IsHiddenForViewport reports whether n is hidden in the editor preview for
// vp. Per-viewport editor flags take precedence over the node's "hidden"
// attribute; with no viewport selected only the attribute counts.
func IsHiddenForViewport(n Node, flags EditorFlags, vp Viewport) bool {
	if n == nil {
		return false
	}
	if f, ok := flags[n.NodeID()]; ok && f.Hidden != nil && vp != "" {
		return slices.Contains(f.Hidden, vp)
	}
	hidden, _ := n.NodeAttrs()[AttrHidden].(bool)
	return hidden
}

// Visible returns the nodes of list that are not hidden for vp. The result
// shares nodes with list.
func Visible(list []Node, flags EditorFlags, vp Viewport) []Node {
	out := make([]Node, 0, len(list))
	for _, n := range list {
		if n != nil && !IsHiddenForViewport(n, flags, vp) {
			out = append(out, n)
		}
	}
	return out
}

// UnderlyingIndex maps an insertion index computed over the visible subset of
// list back to an index into list itself. Positions at or past the visible
// end map to len(list).
func UnderlyingIndex(list []Node, flags EditorFlags, vp Viewport, visibleIndex int) int {
	visible := Visible(list, flags, vp)
	if visibleIndex < 0 {
		visibleIndex = 0
	}
	if visibleIndex >= len(visible) {
		return len(list)
	}
	target := visible[visibleIndex].NodeID()
	for i, n := range list {
		if n != nil && n.NodeID() == target {
			return i
		}
	}
	return len(list)
}
