// Package nodelink renders layer graphs as node-link diagrams.
//
// # Overview
//
// Each layer of a topcat run is a directed graph whose edges point from a
// dependency to the file requiring it. This package turns one such graph into
// Graphviz DOT text and, through Graphviz, into SVG. It backs the diagnostics
// printed under --verbose and the "topcat graph" command.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Name: "normal"})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Name: DOT graph identifier, usually the layer name
//   - Detailed: also print each file's path in its node label
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
