// Package render draws page trees as outline diagrams.
//
// # Overview
//
// The outline is a top-to-bottom Graphviz diagram: the page is the root,
// every component is a rounded box connected to its parent, and siblings
// keep their document order. Containers are tinted, and nodes hidden in
// the selected preview viewport are drawn dashed.
//
// # Usage
//
// Convert a tree to DOT, then render to SVG:
//
//	dot := render.ToDOT("landing", t, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// For PDF or PNG output, convert the SVG:
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package render
