// Package pkg provides the core libraries of Pagebuilder, the drag-and-drop
// engine of a visual page builder.
//
// # Overview
//
// A page is an ordered tree of components. Containers own children, leaves
// do not, and a placement-rules table decides which block types may sit
// under which parents. Every structural change is expressed as a small
// action and applied to an immutable tree, so each edit is one undo step.
//
// The pkg directory is organized into four areas:
//
//  1. Model: [tree], [rules], [action], [geom]
//  2. Interaction: [dnd], [insert], [autoscroll]
//  3. Documents: [editor], [cache], [io], [script]
//  4. Support: [errors], [observability], [config], [render], [buildinfo]
//
// # Architecture
//
// The data flow of a drag gesture:
//
//	pointer events
//	     ↓
//	[dnd] Machine (hover, insertion index, drop allowed)
//	     ↓
//	[insert] Inserter (placement checks, actions)
//	     ↓
//	[editor] Document (apply, history, persistence)
//	     ↓
//	[cache] file or Redis backend
//
// # Quick Start
//
// Drop a palette block into a section:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pagebuilder/pkg/dnd"
//	    "github.com/matzehuels/pagebuilder/pkg/editor"
//	    "github.com/matzehuels/pagebuilder/pkg/tree"
//	)
//
//	ctx := context.Background()
//	page := tree.Tree{tree.NewContainer("hero", tree.TypeSection, nil)}
//	doc, _ := editor.Open(ctx, "home", page, editor.Options{})
//
//	c := dnd.NewController(dnd.NewMachine(dnd.Options{}), doc)
//	c.Start(ctx, dnd.Payload{From: dnd.FromPalette, Type: tree.TypeButton})
//	c.End(ctx, dnd.EndEvent{Over: &dnd.Over{ID: dnd.ContainerDropID("hero")}})
//
//	_ = doc.Undo(ctx)
//
// # Main Packages
//
// [tree] - Nodes, the closed block-type enumeration, lookups, structural
// validation and per-viewport visibility.
//
// [rules] - The placement-rules table built from a YAML or built-in
// registry, plus whole-tree placement checks.
//
// [action] - Add, Move, Update and Delete, and the pure reducer that applies
// them.
//
// [dnd] - The drag state machine: hover tracking, insertion index, grid
// snapping and drop finalization. [dnd.Controller] binds it to a document.
//
// [insert] - Palette, library, asset and move insertions with their
// placement checks and announcements.
//
// [editor] - Documents with bounded undo and redo, selection, editor flags
// and history persistence through a [cache.Cache].
//
// [cache] - File, Redis and null cache backends with a shared key layout.
//
// [script] - Recorded gesture scripts and their replay transcripts.
//
// [render] - Graphviz outlines of page trees in DOT, SVG, PDF and PNG.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/dnd/...      # Specific package
//	go test -run Example ./... # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/tree
// [rules]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/rules
// [action]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/action
// [geom]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/geom
// [dnd]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/dnd
// [dnd.Controller]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/dnd#Controller
// [insert]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/insert
// [autoscroll]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/autoscroll
// [editor]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/editor
// [cache]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/cache
// [cache.Cache]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/cache#Cache
// [io]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/io
// [script]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/script
// [errors]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/observability
// [config]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/render
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pagebuilder/pkg/buildinfo
package pkg
