package rules

import (
	"slices"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

type typeSet map[tree.Type]struct{}

func (s typeSet) add(types ...tree.Type) {
	for _, t := range types {
		s[t] = struct{}{}
	}
}

func (s typeSet) has(t tree.Type) bool {
	_, ok := s[t]
	return ok
}

func (s typeSet) sorted() []tree.Type {
	out := make([]tree.Type, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Table is an immutable placement-rules table built by [Build]. The zero
// value permits nothing. A Table is safe for concurrent use.
type Table struct {
	allowed    map[tree.ParentKind]typeSet
	containers typeSet
	tabbed     typeSet
}

// Build constructs the placement table for reg. The registry is copied;
// later changes to it do not affect the table.
func Build(reg Registry) *Table {
	content := typeSet{}
	content.add(reg.Atoms...)
	content.add(reg.Molecules...)
	content.add(reg.Organisms...)
	content.add(reg.Overlays...)

	t := &Table{
		allowed:    make(map[tree.ParentKind]typeSet),
		containers: typeSet{},
		tabbed:     typeSet{},
	}
	t.containers.add(reg.Containers...)
	t.containers.add(reg.Layouts...)
	t.tabbed.add(reg.Tabbed...)

	root := typeSet{}
	root.add(reg.Root...)
	t.allowed[tree.RootKind] = root

	for kind := range t.containers {
		set := typeSet{}
		for c := range content {
			set.add(c)
		}
		set.add(reg.Parents[kind]...)
		t.allowed[tree.KindOf(kind)] = set
	}
	return t
}

// Default returns a table built from [DefaultRegistry].
func Default() *Table { return Build(DefaultRegistry()) }

// AllowedChildren returns the block types kind may directly contain, sorted
// by name. Unknown kinds yield an empty slice. The result is a copy.
func (t *Table) AllowedChildren(kind tree.ParentKind) []tree.Type {
	if t == nil {
		return []tree.Type{}
	}
	return t.allowed[kind].sorted()
}

// CanDropChild reports whether a node of type child may be placed directly
// inside a parent of the given kind. It is the single authority consulted
// before any structural change.
func (t *Table) CanDropChild(kind tree.ParentKind, child tree.Type) bool {
	if t == nil {
		return false
	}
	return t.allowed[kind].has(child)
}

// IsContainer reports whether nodes of type typ are created as containers.
func (t *Table) IsContainer(typ tree.Type) bool {
	return t != nil && t.containers.has(typ)
}

// IsTabbed reports whether typ splits its children across tabs.
func (t *Table) IsTabbed(typ tree.Type) bool {
	return t != nil && t.tabbed.has(typ)
}

// Kinds returns every parent kind with an entry in the table, root first,
// then container kinds sorted by name.
func (t *Table) Kinds() []tree.ParentKind {
	if t == nil {
		return nil
	}
	kinds := make([]tree.ParentKind, 0, len(t.allowed))
	for k := range t.allowed {
		if !k.IsRoot() {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)
	return append([]tree.ParentKind{tree.RootKind}, kinds...)
}

// Check returns a placement error when child may not be placed in kind.
// The error wraps [ErrNotAllowed].
func (t *Table) Check(kind tree.ParentKind, child tree.Type) error {
	if t.CanDropChild(kind, child) {
		return nil
	}
	return &PlacementError{Parent: kind, Child: child}
}
