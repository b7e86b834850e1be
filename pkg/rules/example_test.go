package rules_test

import (
	"fmt"

	"github.com/matzehuels/pagebuilder/pkg/rules"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

func ExampleTable_CanDropChild() {
	table := rules.Build(rules.DefaultRegistry())

	fmt.Println(table.CanDropChild(tree.RootKind, tree.TypeSection))
	fmt.Println(table.CanDropChild(tree.RootKind, tree.TypeButton))
	fmt.Println(table.CanDropChild(tree.KindOf(tree.TypeSection), tree.TypeButton))
	// Output:
	// true
	// false
	// true
}

func ExampleTable_AllowedChildren() {
	table := rules.Build(rules.DefaultRegistry())
	fmt.Println(table.AllowedChildren(tree.RootKind))
	fmt.Println(len(table.AllowedChildren(tree.KindOf(tree.TypeText))))
	// Output:
	// [Canvas Section]
	// 0
}
