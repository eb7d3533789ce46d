// Package render converts rendered graph diagrams between output formats.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The [nodelink] subpackage
// produces the SVG:
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// Install librsvg with: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
// Use [Available] to check for it before attempting a conversion.
//
// [nodelink]: github.com/matzehuels/topcat/pkg/render/nodelink
package render
