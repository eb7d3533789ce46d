package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topcat/pkg/dag"
	"github.com/matzehuels/topcat/pkg/errors"
	graphio "github.com/matzehuels/topcat/pkg/io"
	"github.com/matzehuels/topcat/pkg/render/nodelink"
)

const (
	formatDOT  = "dot"
	formatJSON = "json"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format   string  // output format: dot, json, svg, pdf, png
	output   string  // destination file; stdout when empty
	detailed bool    // include file paths in node labels
	scale    float64 // PNG resolution multiplier
	fromJSON string  // saved json export to render instead of building
}

// validGraphFormats is the set of supported graph formats.
var validGraphFormats = map[string]bool{
	formatDOT: true, formatJSON: true, formatSVG: true, formatPDF: true, formatPNG: true,
}

// graphCommand creates the graph command for exporting layer graphs.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT, scale: 2}

	cmd := &cobra.Command{
		Use:   "graph [layer]",
		Short: "Export the dependency graph of one or all layers",
		Long: `Export the dependency graph of one or all layers.

Edges point from a file to the files that require it. Without a layer
argument, dot and json cover every configured layer; svg, pdf and png need
a layer. PDF and PNG output require librsvg (rsvg-convert).

With --from-json the layers are read from a file written by --format json
instead of being built from the input directories.`,
		Example: `  # Save every layer graph, then draw one of them later
  topcat graph -i migrations -e sql -f json -O build/graph.json
  topcat graph normal --from-json build/graph.json -f svg -O build/normal.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if !validGraphFormats[opts.format] {
				return errors.New(errors.ErrCodeInvalidConfig,
					"invalid format: %s (must be 'dot', 'json', 'svg', 'pdf', or 'png')", opts.format)
			}
			var layerName string
			if len(args) == 1 {
				layerName = args[0]
			}

			src, err := c.graphSource(cmd, opts.fromJSON)
			if err != nil {
				return err
			}
			data, err := exportGraph(src, layerName, opts)
			if err != nil {
				return err
			}
			return writeGraph(cmd.OutOrStdout(), opts.output, data)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), json, svg, pdf, png")
	cmd.Flags().StringVarP(&opts.output, "graph-output", "O", "", "write the graph to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include file paths in node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "resolution multiplier for png output")
	cmd.Flags().StringVar(&opts.fromJSON, "from-json", "", "render layers from a saved json export instead of building")
	_ = cmd.MarkFlagFilename("from-json", "json")

	return cmd
}

// layerSource provides named layer graphs in emission order.
// *topcat.Graph implements it.
type layerSource interface {
	Layers() []string
	Layer(name string) (*dag.DAG, error)
}

// graphSource builds the graph from the configured inputs, or reads a saved
// export when path is set.
func (c *CLI) graphSource(cmd *cobra.Command, path string) (layerSource, error) {
	if path == "" {
		g, err := c.buildGraph(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	layers, err := graphio.ImportLayersJSON(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read graph export %s", path).WithPath(path)
	}
	loggerFromContext(cmd.Context()).Debugf("Loaded %d layers from %s", len(layers), path)
	return importedLayers(layers), nil
}

// importedLayers serves layers decoded from a json export.
type importedLayers []graphio.Layer

func (l importedLayers) Layers() []string {
	names := make([]string, len(l))
	for i, layer := range l {
		names[i] = layer.Name
	}
	return names
}

func (l importedLayers) Layer(name string) (*dag.DAG, error) {
	for _, layer := range l {
		if layer.Name == name {
			return layer.Graph, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnknownLayer,
		"unknown layer %q, exported layers are [%s]", name, strings.Join(l.Layers(), ", "))
}

// exportGraph renders the requested layer, or all layers when layerName is
// empty, in opts.format.
func exportGraph(src layerSource, layerName string, opts graphOpts) ([]byte, error) {
	names := src.Layers()
	if layerName != "" {
		names = []string{layerName}
	}
	toDOT := func(name string) (string, error) {
		d, err := src.Layer(name)
		if err != nil {
			return "", err
		}
		return nodelink.ToDOT(d, nodelink.Options{Name: name, Detailed: opts.detailed}), nil
	}

	switch opts.format {
	case formatDOT:
		var buf bytes.Buffer
		for i, name := range names {
			dot, err := toDOT(name)
			if err != nil {
				return nil, err
			}
			if i > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(dot)
		}
		return buf.Bytes(), nil

	case formatJSON:
		layers := make([]graphio.Layer, 0, len(names))
		for _, name := range names {
			d, err := src.Layer(name)
			if err != nil {
				return nil, err
			}
			layers = append(layers, graphio.Layer{Name: name, Graph: d})
		}
		var buf bytes.Buffer
		if err := graphio.WriteLayersJSON(layers, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if layerName == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "format %s needs a layer argument", opts.format)
	}
	dot, err := toDOT(layerName)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch opts.format {
	case formatSVG:
		data, err = nodelink.RenderSVG(dot)
	case formatPDF:
		data, err = nodelink.RenderPDF(dot)
	case formatPNG:
		data, err = nodelink.RenderPNG(dot, opts.scale)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.format, err)
	}
	return data, nil
}

// writeGraph writes data to path, creating parent directories, or to w when
// path is empty.
func writeGraph(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create directory for %s", path).WithPath(path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path).WithPath(path)
	}
	printSuccess("Generated graph")
	printFile(path)
	return nil
}
