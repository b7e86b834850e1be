// Package tree provides the component tree of a page: a recursive list of
// typed blocks where every node is either a [Leaf] or a [Container].
//
// # Overview
//
// A page is a [Tree], an ordered list of top-level nodes. Containers own an
// ordered list of children, possibly empty; leaves own none. Whether a node
// is a container is decided by its variant, never by its type name or by the
// length of its children:
//
//	switch n := node.(type) {
//	case *tree.Container:
//	    // n.Children may be empty
//	case *tree.Leaf:
//	}
//
// On the wire (JSON) the variant is carried by the presence of the
// "children" key. An empty "children": [] decodes to an empty container.
//
// # Lookups
//
// All lookups are pure and recursive over a snapshot and never panic on
// malformed references. They report absence through nil results or a
// boolean, never by returning an error:
//
//	n := tree.FindByID(t, "hero")
//	parent, found := tree.FindParentID(t, "hero")
//	// found && parent == "" means "hero" is a top-level node
//
// [ResolveParentKind] maps a parent id to the [ParentKind] used by placement
// rules, with [RootKind] as a fail-safe when the parent cannot be resolved.
//
// # Identifiers
//
// Node ids are unique across a tree and never reassigned. New ids come from
// an [IDGenerator]; the default [UUIDv7] produces time-ordered ids whose
// string form sorts lexicographically by creation time. [CloneWithFreshIDs]
// assigns new ids at every level of a cloned subtree.
package tree
