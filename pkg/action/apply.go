package action

import (
	"errors"
	"fmt"

	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

var (
	// ErrUnknownKind is returned by [Decode] for an unrecognized "type".
	ErrUnknownKind = errors.New("unknown action type")

	// ErrNilComponent is returned when an [Add] carries no node.
	ErrNilComponent = errors.New("add requires a component")

	// ErrUnknownParent is returned when a parent id does not exist.
	ErrUnknownParent = errors.New("unknown parent")

	// ErrParentNotContainer is returned when a parent id names a leaf.
	ErrParentNotContainer = errors.New("parent is not a container")

	// ErrUnknownNode is returned by [Update] and [Delete] for a missing id.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSourceOutOfRange is returned when a [Move] source index does not
	// address an existing child.
	ErrSourceOutOfRange = errors.New("move source out of range")

	// ErrMoveIntoSelf is returned when a [Move] destination lies inside the
	// subtree being moved.
	ErrMoveIntoSelf = errors.New("cannot move a node into its own subtree")

	// ErrDuplicateID is returned when an [Add] would introduce an id that
	// already exists in the tree.
	ErrDuplicateID = errors.New("duplicate node ID")
)

// Apply returns the tree produced by a. On error it returns t unchanged.
func Apply(t tree.Tree, a Action) (tree.Tree, error) {
	var (
		out tree.Tree
		err error
	)
	switch a := a.(type) {
	case Add:
		out, err = applyAdd(t, a)
	case *Add:
		out, err = applyAdd(t, *a)
	case Move:
		out, err = applyMove(t, a)
	case *Move:
		out, err = applyMove(t, *a)
	case Update:
		out, err = applyUpdate(t, a)
	case *Update:
		out, err = applyUpdate(t, *a)
	case Delete:
		out, err = applyDelete(t, a)
	case *Delete:
		out, err = applyDelete(t, *a)
	default:
		err = perrors.Wrap(perrors.ErrCodeInvalidAction, ErrUnknownKind, "unsupported action %T", a)
	}
	if err != nil {
		return t, err
	}
	return out, nil
}

// ApplyAll applies actions in order. If any action fails, it returns t
// unchanged and the error of the failing action, annotated with its index.
func ApplyAll(t tree.Tree, actions ...Action) (tree.Tree, error) {
	cur := t
	for i, a := range actions {
		next, err := Apply(cur, a)
		if err != nil {
			return t, fmt.Errorf("action %d: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}

func applyAdd(t tree.Tree, a Add) (tree.Tree, error) {
	if a.Component == nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidAction, ErrNilComponent, "add")
	}
	var dup string
	seen := make(map[string]struct{})
	tree.Walk(tree.Tree{a.Component}, func(n tree.Node, _ int) bool {
		if dup != "" {
			return false
		}
		id := n.NodeID()
		if _, ok := seen[id]; ok || tree.FindByID(t, id) != nil {
			dup = id
			return false
		}
		seen[id] = struct{}{}
		return true
	})
	if dup != "" {
		return nil, perrors.Wrap(perrors.ErrCodeDuplicateID, ErrDuplicateID, "add %s", dup)
	}
	return editList(t, a.ParentID, func(list []tree.Node) ([]tree.Node, error) {
		return insertAt(list, clamp(a.Index, len(list)), a.Component), nil
	})
}

func applyMove(t tree.Tree, m Move) (tree.Tree, error) {
	src, ok := tree.ChildrenOf(t, m.From.ParentID)
	if !ok {
		return nil, parentError(t, m.From.ParentID, "move from")
	}
	if m.From.Index < 0 || m.From.Index >= len(src) {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidAction, ErrSourceOutOfRange,
			"move from %s[%d] (len %d)", parentName(m.From.ParentID), m.From.Index, len(src))
	}
	moving := src[m.From.Index]
	if m.To.ParentID != "" && tree.Contains(moving, m.To.ParentID) {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidAction, ErrMoveIntoSelf, "move %s into %s", moving.NodeID(), m.To.ParentID)
	}

	removed, err := editList(t, m.From.ParentID, func(list []tree.Node) ([]tree.Node, error) {
		return removeAt(list, m.From.Index), nil
	})
	if err != nil {
		return nil, err
	}
	return editList(removed, m.To.ParentID, func(list []tree.Node) ([]tree.Node, error) {
		return insertAt(list, clamp(m.To.Index, len(list)), moving), nil
	})
}

func applyUpdate(t tree.Tree, u Update) (tree.Tree, error) {
	loc, ok := tree.Locate(t, u.ID)
	if !ok {
		return nil, perrors.Wrap(perrors.ErrCodeNotFound, ErrUnknownNode, "update %s", u.ID)
	}
	return editList(t, loc.ParentID, func(list []tree.Node) ([]tree.Node, error) {
		n := list[loc.Index]
		attrs := n.NodeAttrs().Clone()
		for k, v := range u.Patch {
			if tree.IsReserved(k) {
				continue
			}
			if v == nil {
				delete(attrs, k)
				continue
			}
			attrs[k] = v
		}
		out := make([]tree.Node, len(list))
		copy(out, list)
		out[loc.Index] = tree.WithAttrs(n, attrs)
		return out, nil
	})
}

func applyDelete(t tree.Tree, d Delete) (tree.Tree, error) {
	loc, ok := tree.Locate(t, d.ID)
	if !ok {
		return nil, perrors.Wrap(perrors.ErrCodeNotFound, ErrUnknownNode, "delete %s", d.ID)
	}
	return editList(t, loc.ParentID, func(list []tree.Node) ([]tree.Node, error) {
		return removeAt(list, loc.Index), nil
	})
}

// editList rebuilds the path from the root to parentID, replacing that
// parent's children with the result of fn. Subtrees off the path are shared.
func editList(t tree.Tree, parentID string, fn func([]tree.Node) ([]tree.Node, error)) (tree.Tree, error) {
	if parentID == "" {
		out, err := fn(t)
		if err != nil {
			return nil, err
		}
		return tree.Tree(out), nil
	}
	out, found, err := editIn(t, parentID, fn)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, parentError(t, parentID, "edit")
	}
	return tree.Tree(out), nil
}

func editIn(nodes []tree.Node, parentID string, fn func([]tree.Node) ([]tree.Node, error)) ([]tree.Node, bool, error) {
	for i, n := range nodes {
		c, ok := n.(*tree.Container)
		if !ok {
			continue
		}
		var (
			children []tree.Node
			found    bool
			err      error
		)
		if c.ID == parentID {
			children, err = fn(c.Children)
			found = true
		} else {
			children, found, err = editIn(c.Children, parentID, fn)
		}
		if err != nil {
			return nil, true, err
		}
		if found {
			out := make([]tree.Node, len(nodes))
			copy(out, nodes)
			out[i] = tree.WithChildren(c, children)
			return out, true, nil
		}
	}
	return nodes, false, nil
}

func parentError(t tree.Tree, parentID, op string) error {
	if n := tree.FindByID(t, parentID); n != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidAction, ErrParentNotContainer, "%s %s", op, parentID)
	}
	return perrors.Wrap(perrors.ErrCodeNotFound, ErrUnknownParent, "%s %s", op, parentID)
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func insertAt(list []tree.Node, i int, n tree.Node) []tree.Node {
	out := make([]tree.Node, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, n)
	return append(out, list[i:]...)
}

func removeAt(list []tree.Node, i int) []tree.Node {
	out := make([]tree.Node, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
