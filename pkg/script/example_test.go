package script_test

import (
	"context"
	"os"
	"strings"

	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	"github.com/matzehuels/pagebuilder/pkg/script"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

func ExampleRun() {
	ctx := context.Background()
	page := tree.Tree{&tree.Container{ID: "hero", Type: tree.TypeSection, Children: []tree.Node{}}}
	doc, _ := editor.Open(ctx, "home", page, editor.Options{})
	m := dnd.NewMachine(dnd.Options{IDs: &tree.SequenceIDs{Prefix: "b"}})

	s, _ := script.Parse(strings.NewReader(`
steps:
  - start: {from: palette, type: Button}
  - end: {over: {id: hero}}
  - insert: {type: Divider}
`))
	tr, _ := script.Run(ctx, doc, m, s)
	tr.WriteText(os.Stdout)
	// Output:
	// 1 start
	// 2 end
	//   add Button b1 at hero[0]
	// 3 insert
	//   add Divider b2 at hero[1]
}
