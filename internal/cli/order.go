package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// orderCommand creates the order command for printing the sorted file list.
func (c *CLI) orderCommand() *cobra.Command {
	var names bool

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the files in concatenation order",
		Long: `Print the files in concatenation order, one per line.

The list is exactly what the root command would concatenate, with the same
layer, prefix and subdirectory filters applied. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := c.buildGraph(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			files, err := g.SortedFiles()
			if err != nil {
				return err
			}

			byPath := map[string]string{}
			if names {
				nodes, err := g.Nodes()
				if err != nil {
					return err
				}
				for _, n := range nodes {
					byPath[n.Path] = n.Name
				}
			}

			out := cmd.OutOrStdout()
			for _, f := range files {
				if names {
					fmt.Fprintf(out, "%s\t%s\n", byPath[f], f)
					continue
				}
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&names, "names", false, "prefix each path with its declared name")

	return cmd
}
