package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clipilot/clipilot/internal/config"
	"github.com/clipilot/clipilot/internal/logging"
	"github.com/clipilot/clipilot/internal/output"
	"github.com/clipilot/clipilot/internal/platform"
	"github.com/clipilot/clipilot/internal/version"
)

// cfg and logger are initialized by the root PersistentPreRunE and
// shared by all subcommands.
var (
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clipilot",
	Short: "Drive an interactive CLI session with a payload via desktop automation",
	Long: `clipilot delivers a text payload into an external interactive
command-line program that has no API: it launches the program in a new
terminal window, focuses that window, pastes the payload from the
clipboard, verifies the paste, and submits it. Every step runs a
ladder of platform strategies, so automation degrades to an operator
fallback instead of failing silently.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (includes per-strategy attempts)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, _ := rootCmd.PersistentFlags().GetBool("pretty"); pretty {
			output.PrettyOutput = true
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		platform.PreferredTerminal = cfg.Launch.Terminal

		debug, _ := rootCmd.PersistentFlags().GetBool("debug")
		logger, err = logging.New(debug)
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	}
}
