package rules

import (
	"errors"
	"fmt"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// ErrNotAllowed is wrapped by every [PlacementError].
var ErrNotAllowed = errors.New("placement not allowed")

// PlacementError reports a parent/child combination rejected by a [Table].
type PlacementError struct {
	Parent tree.ParentKind
	Child  tree.Type
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%s cannot contain %s", e.Parent, e.Child)
}

func (e *PlacementError) Unwrap() error { return ErrNotAllowed }
