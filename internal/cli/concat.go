package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/output"
	"github.com/matzehuels/topcat/pkg/topcat"
)

// runConcat builds the graph and writes the concatenated output, or prints
// it to stdout under --dry-run.
func (c *CLI) runConcat(cmd *cobra.Command) error {
	if !c.dryRun && c.settings.OutputFile == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "--output-file is required unless --dry-run is set")
	}

	ctx := cmd.Context()
	g, err := c.buildGraph(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	files, err := g.SortedFiles()
	if err != nil {
		return err
	}

	opts := c.settings.outputOptions()
	if c.dryRun {
		return printOutput(cmd.OutOrStdout(), files, opts, nil)
	}

	prog := newProgress(loggerFromContext(ctx))
	if err := output.WriteFile(c.settings.OutputFile, files, opts, nil); err != nil {
		return err
	}
	prog.done("Generation successful", "files", len(files))

	if len(files) == 0 {
		printWarning("No files selected, wrote an empty output")
	} else {
		printSuccess("Concatenated %d files", len(files))
	}
	printFile(c.settings.OutputFile)
	return nil
}

// printOutput renders the whole concatenation before writing any of it to w,
// so a read failure leaves w untouched.
func printOutput(w io.Writer, files []string, opts output.Options, fsys output.FileSystem) error {
	data, err := output.Render(files, opts, fsys)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write output")
	}
	return nil
}

// buildGraph discovers and parses the configured inputs. Under --verbose it
// also writes every layer's DOT graph to diag.
func (c *CLI) buildGraph(ctx context.Context, diag io.Writer) (*topcat.Graph, error) {
	if len(c.settings.InputDirs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no input directories, set --input-dirs")
	}

	logger := loggerFromContext(ctx)
	g, err := topcat.New(c.settings.graphConfig(logger))
	if err != nil {
		return nil, err
	}

	prog := newProgress(logger)
	if err := g.Build(); err != nil {
		return nil, err
	}
	stats, err := g.Stats()
	if err != nil {
		return nil, err
	}
	prog.done("Graph built successfully", "files", stats.Nodes, "dependencies", stats.Edges)

	if c.verbose {
		for _, name := range g.Layers() {
			dot, err := g.DOT(name, false)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(diag, "%s graph:\n%s\n", name, dot)
		}
	}
	return g, nil
}
