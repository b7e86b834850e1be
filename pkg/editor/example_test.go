package editor_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/pagebuilder/pkg/action"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

func ExampleDocument_Undo() {
	ctx := context.Background()
	doc, _ := editor.Open(ctx, "landing", tree.Tree{
		&tree.Container{ID: "hero", Type: tree.TypeSection, Children: []tree.Node{}},
	}, editor.Options{})

	doc.Dispatch(ctx, action.Add{Component: &tree.Leaf{ID: "title", Type: tree.TypeText}, ParentID: "hero"})
	fmt.Println(tree.IDs(doc.Tree()))

	doc.Undo(ctx)
	fmt.Println(tree.IDs(doc.Tree()))
	// Output:
	// [hero title]
	// [hero]
}
