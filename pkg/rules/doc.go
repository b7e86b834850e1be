// Package rules provides the placement rules of the page builder: a table
// mapping each parent kind to the set of block types it may directly
// contain.
//
// # Registries
//
// A [Registry] groups block types into categories. [Build] turns a registry
// into an immutable [Table]:
//
//   - CONTENT, the union of atoms, molecules, organisms and overlays, is
//     shared by every container entry.
//   - [tree.RootKind] permits only the registry's root whitelist.
//   - A kind listed in Parents permits its declared sub-containers plus
//     CONTENT.
//   - Any other kind registered as a container or layout permits CONTENT.
//   - Everything else permits nothing.
//
// Tables are values: build one at startup and inject it where placement
// decisions are made. Tests can build alternate tables without touching any
// process-wide state.
//
//	table := rules.Build(rules.DefaultRegistry())
//	table.CanDropChild(tree.RootKind, tree.TypeSection) // true
//	table.CanDropChild(tree.RootKind, tree.TypeText)    // false
//
// Registries can also be read from YAML with [ParseRegistry] and
// [LoadRegistry].
package rules
