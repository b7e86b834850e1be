package tree

// Location is the position of a node: its parent id ("" for top level) and
// its index among that parent's children.
type Location struct {
	ParentID string `json:"parentId,omitempty"`
	Index    int    `json:"index"`
}

// FindByID returns the node with the given id, or nil if t does not contain
// it. The search is depth-first: a container's children are searched before
// its next sibling.
func FindByID(t Tree, id string) Node {
	if id == "" {
		return nil
	}
	return findIn(t, id)
}

func findIn(nodes []Node, id string) Node {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.NodeID() == id {
			return n
		}
		if c, ok := n.(*Container); ok {
			if found := findIn(c.Children, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindParentID returns the id of the container owning the node id.
//
// It distinguishes three outcomes:
//   - ("P", true): the node is a child of container P
//   - ("", true): the node is a top-level node
//   - ("", false): the node is not in t
func FindParentID(t Tree, id string) (string, bool) {
	loc, ok := Locate(t, id)
	return loc.ParentID, ok
}

// Locate returns the parent id and index of the node id.
func Locate(t Tree, id string) (Location, bool) {
	if id == "" {
		return Location{}, false
	}
	return locateIn(t, id, "")
}

func locateIn(nodes []Node, id, parentID string) (Location, bool) {
	for i, n := range nodes {
		if n == nil {
			continue
		}
		if n.NodeID() == id {
			return Location{ParentID: parentID, Index: i}, true
		}
		if c, ok := n.(*Container); ok {
			if loc, found := locateIn(c.Children, id, c.ID); found {
				return loc, true
			}
		}
	}
	return Location{}, false
}

// TypeOf returns the declared type of the node id.
func TypeOf(t Tree, id string) (Type, bool) {
	n := FindByID(t, id)
	if n == nil {
		return "", false
	}
	return n.NodeType(), true
}

// ResolveParentKind returns the placement-rule kind for a drop into parentID.
//
// An empty parentID resolves to [RootKind]. Otherwise the kind is the type of
// the node at parentID. When that node cannot be found the result is
// [RootKind] with ok == false: an invalid parent must never block the caller,
// but callers that care can tell the fallback apart.
func ResolveParentKind(t Tree, parentID string) (ParentKind, bool) {
	if parentID == "" {
		return RootKind, true
	}
	typ, ok := TypeOf(t, parentID)
	if !ok {
		return RootKind, false
	}
	return KindOf(typ), true
}

// ChildrenOf returns the list a drop into parentID lands in: the top-level
// list when parentID is empty, or the children of the container parentID.
// It reports false when parentID does not name a container in t.
func ChildrenOf(t Tree, parentID string) ([]Node, bool) {
	if parentID == "" {
		return t, true
	}
	c, ok := FindByID(t, parentID).(*Container)
	if !ok {
		return nil, false
	}
	return c.Children, true
}

// Walk calls fn for every node in depth-first order with its depth (0 for
// top-level nodes). Returning false from fn skips the node's children.
func Walk(t Tree, fn func(n Node, depth int) bool) {
	walk(t, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !fn(n, depth) {
			continue
		}
		if c, ok := n.(*Container); ok {
			walk(c.Children, depth+1, fn)
		}
	}
}

// Count returns the number of nodes in t, including nested nodes.
func Count(t Tree) int {
	count := 0
	Walk(t, func(Node, int) bool {
		count++
		return true
	})
	return count
}

// IDs returns every node id in t in depth-first order.
func IDs(t Tree) []string {
	var ids []string
	Walk(t, func(n Node, _ int) bool {
		ids = append(ids, n.NodeID())
		return true
	})
	return ids
}

// Depth returns the maximum nesting depth of t: 0 for a flat list, -1 for an
// empty tree.
func Depth(t Tree) int {
	max := -1
	Walk(t, func(_ Node, d int) bool {
		if d > max {
			max = d
		}
		return true
	})
	return max
}

// Contains reports whether the subtree rooted at n contains a node with id,
// including n itself.
func Contains(n Node, id string) bool {
	if n == nil || id == "" {
		return false
	}
	if n.NodeID() == id {
		return true
	}
	return findIn(Children(n), id) != nil
}
