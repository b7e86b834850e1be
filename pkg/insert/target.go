package insert

import (
	"github.com/matzehuels/pagebuilder/pkg/rules"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// TargetFor computes where a click-to-insert of type typ lands:
//
//  1. an explicit insertion marker wins;
//  2. a selected container that accepts typ receives it as its last child;
//  3. otherwise typ goes right after the selected node, in that node's parent;
//  4. with nothing usable selected, typ is appended at the top level.
//
// When several nodes are selected the last one is used.
func TargetFor(t tree.Tree, table *rules.Table, typ tree.Type, selection []string, marker *Target) Target {
	if marker != nil {
		return *marker
	}
	if len(selection) > 0 {
		id := selection[len(selection)-1]
		if c, ok := tree.FindByID(t, id).(*tree.Container); ok && table.CanDropChild(tree.KindOf(c.Type), typ) {
			return Target{ParentID: c.ID, Index: len(c.Children)}
		}
		if loc, ok := tree.Locate(t, id); ok {
			return Target{ParentID: loc.ParentID, Index: loc.Index + 1}
		}
	}
	return Target{Index: len(t)}
}
