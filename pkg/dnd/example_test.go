package dnd_test

import (
	"fmt"

	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

func ExampleMachine_End() {
	page := tree.Tree{
		&tree.Container{ID: "hero", Type: tree.TypeSection, Children: []tree.Node{
			&tree.Leaf{ID: "title", Type: tree.TypeText},
		}},
	}
	m := dnd.NewMachine(dnd.Options{IDs: &tree.SequenceIDs{Prefix: "block-"}})

	s := m.Start(dnd.Payload{From: dnd.FromPalette, Type: tree.TypeButton})
	s = m.Move(s, page, dnd.MoveEvent{Over: &dnd.Over{ID: dnd.ContainerDropID("hero")}})
	fb := dnd.FeedbackOf(s)
	fmt.Println(fb.InsertParentID, *fb.InsertIndex, *fb.DropAllowed)

	_, out := m.End(s, page, dnd.EndEvent{Over: &dnd.Over{ID: dnd.ContainerDropID("hero")}})
	fmt.Println(out.Actions[0])
	// Output:
	// hero 1 true
	// add Button block-1 at hero[1]
}

func ExampleMachine_Cancel() {
	m := dnd.NewMachine(dnd.Options{})
	s := m.Start(dnd.Payload{From: dnd.FromPalette, Type: tree.TypeText})
	s, out := m.Cancel(s)
	fmt.Println(dnd.FeedbackOf(s).Active, len(out.Actions), out.Announce)
	// Output:
	// false 0 Canceled
}
