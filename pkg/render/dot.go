package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Formats supported by the outline renderer.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// Options configures outline rendering.
type Options struct {
	// Detailed includes attributes in node labels.
	// When false, only the type and id are shown.
	Detailed bool
	// Flags and Viewport select which nodes are drawn as hidden.
	Flags    tree.EditorFlags
	Viewport tree.Viewport
}

// rootID is the DOT id of the page node. Component ids never collide with
// it because DOT ids of components are prefixed.
const rootID = "page"

// ToDOT converts a page tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(pageID string, t tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	label := pageID
	if label == "" {
		label = "page"
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=\"#f5f5f5\"];\n", rootID, label)

	var edges []string
	var visit func(parent string, nodes []tree.Node)
	visit = func(parent string, nodes []tree.Node) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			id := dotID(n.NodeID())
			attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), tree.IsHiddenForViewport(n, opts.Flags, opts.Viewport))
			fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, id))
			visit(id, tree.Children(n))
		}
	}
	visit(rootID, t)

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotID(id string) string { return "n:" + id }

func fmtLabel(n tree.Node, detailed bool) string {
	head := fmt.Sprintf("%s\n%s", n.NodeType(), n.NodeID())
	attrs := n.NodeAttrs()
	if !detailed || len(attrs) == 0 {
		return head
	}

	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, attrs[k]))
	}
	return head + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n tree.Node, label string, hidden bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if tree.IsContainer(n) {
		attrs = append(attrs, "fillcolor=\"#eef4ff\"")
	}
	if hidden {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey40")
	}
	return attrs
}
