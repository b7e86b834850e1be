package tree

import (
	"errors"
	"fmt"
	"slices"
)

// MaxDepth is the default maximum nesting depth of a tree. Top-level nodes
// are at depth 0.
const MaxDepth = 8

var (
	// ErrEmptyID is returned by [Validate] when a node has no id.
	ErrEmptyID = errors.New("node ID must not be empty")

	// ErrDuplicateID is returned by [Validate] when two nodes share an id.
	ErrDuplicateID = errors.New("duplicate node ID")

	// ErrUnknownType is returned by [Validate] when a node's type is not a
	// member of the closed type enumeration.
	ErrUnknownType = errors.New("unknown node type")

	// ErrTooDeep is returned by [Validate] when nesting exceeds the
	// configured maximum depth.
	ErrTooDeep = errors.New("tree exceeds maximum nesting depth")

	// ErrChildrenNotAllowed is returned by [Validate] when a container's
	// type is not a container type.
	ErrChildrenNotAllowed = errors.New("node type cannot own children")

	// ErrNilNode is returned by [Validate] when a list holds a nil node.
	ErrNilNode = errors.New("nil node")

	// ErrNotLeaf is returned when decoding a leaf from an object that
	// carries "children".
	ErrNotLeaf = errors.New("node is not a leaf")

	// ErrNotContainer is returned when decoding a container from an object
	// without "children".
	ErrNotContainer = errors.New("node is not a container")

	// ErrNullNode is returned when decoding a JSON null as a node.
	ErrNullNode = errors.New("node must not be null")
)

var containerTypes = []Type{
	TypeSection, TypeCanvas, TypeMultiColumn, TypeStackFlex, TypeGrid,
	TypeCarouselContainer, TypeTabsAccordionContainer, TypeTabs,
	TypeDataset, TypeRepeater, TypeBind,
}

// IsContainerType reports whether nodes of type t are containers in the
// built-in component set.
func IsContainerType(t Type) bool { return slices.Contains(containerTypes, t) }

// ValidateOptions configures [Validate] and [Normalize].
type ValidateOptions struct {
	// MaxDepth bounds the nesting depth. Zero means [MaxDepth]; a negative
	// value disables the check.
	MaxDepth int
	// AllowUnknownTypes skips the type enumeration check.
	AllowUnknownTypes bool
	// ContainerType decides which types may own children. Nil means
	// [IsContainerType].
	ContainerType func(Type) bool
}

func (o ValidateOptions) maxDepth() int {
	if o.MaxDepth == 0 {
		return MaxDepth
	}
	return o.MaxDepth
}

func (o ValidateOptions) isContainerType(t Type) bool {
	if o.ContainerType != nil {
		return o.ContainerType(t)
	}
	return IsContainerType(t)
}

// Validate checks the structural invariants of t: non-empty unique ids, known
// types, bounded depth, and children only on container types. All problems
// found are joined into the returned error.
func Validate(t Tree, opts ValidateOptions) error {
	var errs []error
	seen := make(map[string]struct{})
	maxDepth := opts.maxDepth()

	var visit func(nodes []Node, depth int)
	visit = func(nodes []Node, depth int) {
		for i, n := range nodes {
			if n == nil {
				errs = append(errs, fmt.Errorf("index %d: %w", i, ErrNilNode))
				continue
			}
			id := n.NodeID()
			if id == "" {
				errs = append(errs, fmt.Errorf("%s at index %d: %w", n.NodeType(), i, ErrEmptyID))
			} else if _, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("node %s: %w", id, ErrDuplicateID))
			} else {
				seen[id] = struct{}{}
			}
			if !opts.AllowUnknownTypes && !n.NodeType().Valid() {
				errs = append(errs, fmt.Errorf("node %s: %w %q", id, ErrUnknownType, n.NodeType()))
			}
			if maxDepth >= 0 && depth > maxDepth {
				errs = append(errs, fmt.Errorf("node %s at depth %d: %w", id, depth, ErrTooDeep))
			}
			if c, ok := n.(*Container); ok {
				if !opts.isContainerType(c.Type) {
					errs = append(errs, fmt.Errorf("node %s: %w", id, ErrChildrenNotAllowed))
				}
				visit(c.Children, depth+1)
			}
		}
	}
	visit(t, 0)
	return errors.Join(errs...)
}

// Normalize migrates legacy trees: leaves whose type is a container type
// become empty containers. Unchanged subtrees are shared with t.
func Normalize(t Tree, opts ValidateOptions) Tree {
	out, _ := normalize(t, opts)
	return out
}

func normalize(nodes []Node, opts ValidateOptions) ([]Node, bool) {
	var out []Node
	changed := false
	for i, n := range nodes {
		next := n
		switch v := n.(type) {
		case *Leaf:
			if opts.isContainerType(v.Type) {
				next = &Container{ID: v.ID, Type: v.Type, Attrs: v.Attrs, Children: []Node{}}
			}
		case *Container:
			if children, ok := normalize(v.Children, opts); ok {
				next = WithChildren(v, children)
			}
		}
		if next != n && !changed {
			changed = true
			out = make([]Node, i, len(nodes))
			copy(out, nodes[:i])
		}
		if changed {
			out = append(out, next)
		}
	}
	if !changed {
		return nodes, false
	}
	return out, true
}
