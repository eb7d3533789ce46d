package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topcat/pkg/dag"
	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Name is the DOT graph identifier, typically the layer name.
	// Defaults to "G".
	Name string

	// Detailed adds the source path under each node name.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts a layer graph to Graphviz DOT format.
// Edges point from a dependency to the file that requires it, so files higher
// in the drawing are emitted first. Nodes nothing depends on within the layer
// are drawn in the accent color when there is more than one node.
//
// The output depends only on node names, paths and edges: nodes and edges are
// written in sorted order, so the same graph always yields the same text.
func ToDOT(g *dag.DAG, opts Options) string {
	name := opts.Name
	if name == "" {
		name = "G"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(name))
	for _, attr := range graphAttrs {
		fmt.Fprintf(&buf, "  %s;\n", attr)
	}
	buf.WriteString("\n")

	accent := g.NodeCount() > 1
	for _, n := range g.Nodes() {
		attrs := nodeAttrs(*n, opts.Detailed)
		if accent && g.InDegree(n.ID) == 0 {
			attrs = append(attrs, `fillcolor="#e6f4f1"`)
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(attrs, ", "))
	}

	if g.EdgeCount() > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.From), quote(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// graphAttrs are written at the top of every graph, in order.
var graphAttrs = []string{
	"rankdir=TB",
	`bgcolor="transparent"`,
	`node [shape=box, style="rounded,filled", fillcolor=white, fontname="Helvetica", fontsize=12]`,
	`edge [color="#808080", arrowsize=0.7]`,
	"ranksep=0.4",
	"nodesep=0.25",
}

func nodeAttrs(n dag.Node, detailed bool) []string {
	path := n.Path()
	if !detailed || path == "" {
		return []string{"label=" + quote(n.ID)}
	}
	return []string{
		"label=" + quote(n.ID+"\n"+path),
		"tooltip=" + quote(path),
	}
}

// dotEscaper escapes the only characters special inside a DOT quoted
// string. A newline becomes the \n label escape; everything else, control
// characters included, is written as is.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// RenderSVG lays out a DOT graph with the embedded Graphviz and returns the
// SVG. The result can be converted further with [render.ToPDF] or
// [render.ToPNG]. Malformed DOT is an [errors.ErrCodeInternal] error since
// topcat only renders graphs it generated itself.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and carries explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
