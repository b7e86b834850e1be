package rules

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

func TestCheckTree(t *testing.T) {
	table := Default()

	valid := tree.Tree{
		&tree.Container{ID: "hero", Type: tree.TypeSection, Children: []tree.Node{
			&tree.Leaf{ID: "title", Type: tree.TypeText},
			&tree.Container{ID: "cols", Type: tree.TypeMultiColumn, Children: []tree.Node{
				&tree.Leaf{ID: "cta", Type: tree.TypeButton},
			}},
		}},
	}
	if err := table.CheckTree(valid); err != nil {
		t.Errorf("CheckTree(valid) = %v, want nil", err)
	}

	invalid := tree.Tree{
		&tree.Leaf{ID: "stray", Type: tree.TypeText},
		&tree.Container{ID: "hero", Type: tree.TypeSection, Children: []tree.Node{
			&tree.Container{ID: "inner", Type: tree.TypeSection, Children: []tree.Node{}},
		}},
	}
	err := table.CheckTree(invalid)
	if err == nil {
		t.Fatal("CheckTree(invalid) = nil, want error")
	}
	if !errors.Is(err, ErrNotAllowed) {
		t.Errorf("errors.Is(err, ErrNotAllowed) = false for %v", err)
	}
	var pe *PlacementError
	if !errors.As(err, &pe) || pe.Child != tree.TypeText {
		t.Errorf("first violation = %+v, want Text under ROOT", pe)
	}
	msg := err.Error()
	for _, want := range []string{"node stray: ROOT cannot contain Text", "node inner: Section cannot contain Section"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestCheckTreeEmpty(t *testing.T) {
	if err := Default().CheckTree(nil); err != nil {
		t.Errorf("CheckTree(nil) = %v, want nil", err)
	}
}

func TestViolations(t *testing.T) {
	page := tree.Tree{
		&tree.Container{ID: "hero", Type: tree.TypeSection, Children: []tree.Node{
			&tree.Container{ID: "inner", Type: tree.TypeSection, Children: []tree.Node{
				&tree.Leaf{ID: "deep", Type: tree.TypeText},
			}},
		}},
		&tree.Leaf{ID: "stray", Type: tree.TypeText},
	}
	got := Default().Violations(page)
	var ids []string
	for _, v := range got {
		ids = append(ids, v.NodeID)
	}
	if want := []string{"inner", "stray"}; !slices.Equal(ids, want) {
		t.Errorf("Violations ids = %v, want %v", ids, want)
	}
	if len(got) > 0 && got[0].Err.Parent != tree.KindOf(tree.TypeSection) {
		t.Errorf("Violations[0].Err.Parent = %v, want Section", got[0].Err.Parent)
	}
}
