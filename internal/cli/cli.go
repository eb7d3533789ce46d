package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/topcat/pkg/buildinfo"
	"github.com/matzehuels/topcat/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for config lookup and display.
	appName = "topcat"

	// envPrefix prefixes every environment variable read as configuration.
	envPrefix = "TOPCAT"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	settings Settings
	verbose  bool
	dryRun   bool
	config   string
	viper    *viper.Viper
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: DefaultSettings(),
		viper:    viper.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// The root command itself builds the graph and writes the concatenated
// output. Configuration is layered as flags over TOPCAT_* environment
// variables over topcat.toml over built-in defaults.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "topcat",
		Short: "Topcat concatenates files in dependency order",
		Long: `Topcat concatenates header-annotated files into one artifact, ordered so
that every file comes after the files it requires.

Each file declares itself in a block of comment lines at its top:

  -- name: users
  -- requires: schema, roles
  -- layer: normal

Layers are emitted whole in configured order. Within a layer the order is
stable: the same files always produce the same output.`,
		Example: `  # Concatenate all migrations into one script
  topcat -i migrations -e sql -o build/migrate.sql

  # Preview the result without writing it
  topcat -i migrations -e sql --dry-run`,
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.loadSettings(cmd); err != nil {
				return err
			}
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.SetBuildHooks(newLogHooks(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runConcat(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.registerFlags(root)

	// Register all subcommands
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.configCommand())

	return root
}

// FormatError renders a failed run for the terminal.
func FormatError(err error) string {
	return fmt.Sprintf("Error Encountered:\n%s\n\nExiting.", err)
}

// registerFlags binds every setting to a persistent flag on root, so all
// subcommands share one configuration surface.
func (c *CLI) registerFlags(root *cobra.Command) {
	s := &c.settings
	fs := root.PersistentFlags()

	// Discovery
	fs.StringSliceVarP(&s.InputDirs, "input-dirs", "i", s.InputDirs, "directories containing files to be concatenated")
	fs.StringSliceVarP(&s.IncludeExts, "include-exts", "e", s.IncludeExts, "only include files with the given extensions")
	fs.StringSliceVarP(&s.ExcludeExts, "exclude-exts", "E", s.ExcludeExts, "exclude files with the given extensions")
	fs.StringSliceVarP(&s.IncludeGlobs, "include-glob", "g", s.IncludeGlobs, "only include files matching a pattern relative to the working directory, eg 'sql/**/*.sql'")
	fs.StringSliceVarP(&s.ExcludeGlobs, "exclude-glob", "G", s.ExcludeGlobs, "exclude files matching a pattern relative to the working directory")
	fs.BoolVar(&s.IncludeHidden, "include-hidden", s.IncludeHidden, "include hidden files and directories")

	// Headers and layers
	fs.StringVarP(&s.CommentPrefix, "comment-prefix", "c", s.CommentPrefix, "string that starts a header comment line")
	fs.StringSliceVar(&s.Layers, "layers", s.Layers, "comma-separated layer names in emission order")
	fs.StringVar(&s.FallbackLayer, "fallback-layer", s.FallbackLayer, "layer for files that declare none")

	// Selection
	fs.StringSliceVar(&s.IncludePrefixes, "include-prefix", s.IncludePrefixes, "only emit names starting with one of these prefixes")
	fs.StringSliceVar(&s.ExcludePrefixes, "exclude-prefix", s.ExcludePrefixes, "never emit names starting with one of these prefixes")
	fs.StringVar(&s.SubdirFilter, "subdir-filter", s.SubdirFilter, "only emit files from this directory and their dependencies")

	// Output
	fs.StringVarP(&s.OutputFile, "output-file", "o", s.OutputFile, "path of the combined output file")
	fs.StringVarP(&s.FileSeparator, "file-separator", "s", s.FileSeparator, "line written between concatenated files")
	fs.StringVarP(&s.FileSuffix, "file-suffix", "a", s.FileSuffix, "string every file must end with, appended when missing")
	fs.BoolVar(&s.Annotate, "annotate", s.Annotate, "precede each file with a comment naming its source path")

	// Runtime
	fs.BoolVarP(&c.dryRun, "dry-run", "d", false, "print the output instead of writing it")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "print debug information and every layer graph")
	fs.StringVar(&c.config, "config", "", "config file (default: ./topcat.toml or $XDG_CONFIG_HOME/topcat/topcat.toml)")

	_ = root.MarkPersistentFlagDirname("input-dirs")
	_ = root.MarkPersistentFlagDirname("subdir-filter")
	_ = root.MarkPersistentFlagFilename("config", "toml")
}
