package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/output"
)

// checkCommand creates the check command for detecting a stale output file.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the output file is up to date",
		Long: `Verify that the output file is up to date.

The check command renders the output in memory and compares it with the file
at --output-file. When they differ it prints a unified diff and exits with a
non-zero status, which makes it suitable for CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := c.settings.OutputFile
			if path == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "--output-file is required")
			}

			g, err := c.buildGraph(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			files, err := g.SortedFiles()
			if err != nil {
				return err
			}
			rendered, err := output.Render(files, c.settings.outputOptions(), nil)
			if err != nil {
				return err
			}

			diff, err := output.Check(path, rendered)
			if diff != "" {
				printInfo("%s differs from the generated output", path)
				fmt.Fprint(cmd.OutOrStdout(), diff)
			}
			if err != nil {
				return err
			}
			printSuccess("%s is up to date", path)
			return nil
		},
	}
}
