package rules

import (
	"errors"
	"fmt"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Violation is a node placed under a parent kind that does not permit it.
type Violation struct {
	NodeID string
	Err    *PlacementError
}

func (v Violation) Error() string { return fmt.Sprintf("node %s: %v", v.NodeID, v.Err) }

func (v Violation) Unwrap() error { return v.Err }

// Violations lists the misplaced nodes of page in depth-first order.
func (t *Table) Violations(page tree.Tree) []Violation {
	var out []Violation
	var visit func(nodes []tree.Node, kind tree.ParentKind)
	visit = func(nodes []tree.Node, kind tree.ParentKind) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if !t.CanDropChild(kind, n.NodeType()) {
				out = append(out, Violation{NodeID: n.NodeID(), Err: &PlacementError{Parent: kind, Child: n.NodeType()}})
			}
			if c, ok := n.(*tree.Container); ok {
				visit(c.Children, tree.KindOf(c.Type))
			}
		}
	}
	visit(page, tree.RootKind)
	return out
}

// CheckTree reports every node of page placed under a parent kind that does
// not permit its type. Violations are joined in depth-first order; each
// wraps a [PlacementError].
func (t *Table) CheckTree(page tree.Tree) error {
	var errs []error
	for _, v := range t.Violations(page) {
		errs = append(errs, v)
	}
	return errors.Join(errs...)
}
