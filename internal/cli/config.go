package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	tcerrors "github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/layer"
	"github.com/matzehuels/topcat/pkg/output"
	"github.com/matzehuels/topcat/pkg/source"
	"github.com/matzehuels/topcat/pkg/topcat"
)

// Settings is the effective configuration of a run. Field tags match the
// flag names, which are also the keys of topcat.toml.
type Settings struct {
	InputDirs     []string `toml:"input-dirs"`
	IncludeExts   []string `toml:"include-exts"`
	ExcludeExts   []string `toml:"exclude-exts"`
	IncludeGlobs  []string `toml:"include-glob"`
	ExcludeGlobs  []string `toml:"exclude-glob"`
	IncludeHidden bool     `toml:"include-hidden"`

	CommentPrefix string   `toml:"comment-prefix"`
	Layers        []string `toml:"layers"`
	FallbackLayer string   `toml:"fallback-layer"`

	IncludePrefixes []string `toml:"include-prefix"`
	ExcludePrefixes []string `toml:"exclude-prefix"`
	SubdirFilter    string   `toml:"subdir-filter"`

	OutputFile    string `toml:"output-file"`
	FileSeparator string `toml:"file-separator"`
	FileSuffix    string `toml:"file-suffix"`
	Annotate      bool   `toml:"annotate"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		CommentPrefix: topcat.DefaultCommentPrefix,
		Layers:        append([]string(nil), layer.DefaultNames...),
		FallbackLayer: layer.DefaultFallback,
		FileSeparator: output.DefaultSeparator,
		FileSuffix:    output.DefaultFileEnd,
	}
}

// graphConfig converts the settings into an orchestrator configuration.
func (s Settings) graphConfig(logger *log.Logger) topcat.Config {
	return topcat.Config{
		Sources: source.Options{
			Dirs:              s.InputDirs,
			IncludeHidden:     s.IncludeHidden,
			IncludeExtensions: s.IncludeExts,
			ExcludeExtensions: s.ExcludeExts,
			IncludeGlobs:      s.IncludeGlobs,
			ExcludeGlobs:      s.ExcludeGlobs,
		},
		CommentPrefix:       s.CommentPrefix,
		Layers:              trimAll(s.Layers),
		FallbackLayer:       strings.TrimSpace(s.FallbackLayer),
		IncludeNodePrefixes: s.IncludePrefixes,
		ExcludeNodePrefixes: s.ExcludePrefixes,
		SubdirFilter:        s.SubdirFilter,
		Logger:              logger,
	}
}

// outputOptions converts the settings into concatenation options.
func (s Settings) outputOptions() output.Options {
	return output.Options{
		Separator:     s.FileSeparator,
		FileEnd:       s.FileSuffix,
		Annotate:      s.Annotate,
		CommentPrefix: s.CommentPrefix,
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// =============================================================================
// Viper Binding
// =============================================================================

// loadSettings layers TOPCAT_* environment variables and the config file
// under the flags of cmd. Flags set on the command line always win.
func (c *CLI) loadSettings(cmd *cobra.Command) error {
	v := c.viper
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	explicit := c.config
	if explicit == "" {
		explicit = os.Getenv(envPrefix + "_CONFIG")
	}
	configureConfigFile(v, explicit)

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return tcerrors.Wrap(tcerrors.ErrCodeInvalidConfig, err, "bind flags")
	}
	if err := readConfigFile(v, explicit != ""); err != nil {
		return tcerrors.Wrap(tcerrors.ErrCodeInvalidConfig, err, "read config file")
	}
	if used := v.ConfigFileUsed(); used != "" {
		c.Logger.Debugf("Using config file %s", used)
	}

	var applyErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if applyErr != nil || f.Changed || f.Name == "config" || !v.IsSet(f.Name) {
			return
		}
		if err := applyValue(f, v); err != nil {
			applyErr = tcerrors.Wrap(tcerrors.ErrCodeInvalidConfig, err, "setting %s", f.Name)
		}
	})
	return applyErr
}

// applyValue copies the viper value for f into the flag. Slice flags are
// replaced wholesale so a config list does not append to the defaults.
func applyValue(f *pflag.Flag, v *viper.Viper) error {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		return sv.Replace(stringSlice(v, f.Name))
	}
	return f.Value.Set(fmt.Sprintf("%v", v.Get(f.Name)))
}

// stringSlice reads a list setting. Environment variables hold a single
// comma-separated string, config files hold a TOML array.
func stringSlice(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return trimAll(strings.Split(s, ","))
	}
	return trimAll(v.GetStringSlice(key))
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName(appName)
	v.SetConfigType("toml")
	for _, dir := range configSearchDirs() {
		v.AddConfigPath(dir)
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

// configSearchDirs lists the working directory first, then the user config
// directory following XDG.
func configSearchDirs() []string {
	dirs := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return append(dirs, filepath.Join(xdg, appName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", appName))
	}
	return dirs
}

// =============================================================================
// Config Command
// =============================================================================

// configCommand creates the config command for printing effective settings.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

The output merges flags, TOPCAT_* environment variables, the config file and
built-in defaults. It can be saved as topcat.toml to pin the current setup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSettings(cmd.OutOrStdout(), c.settings)
		},
	}
}

func writeSettings(w io.Writer, s Settings) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}
