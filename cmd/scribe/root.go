package main

import (
	"fmt"
	"os"

	"mercator-hq/scribe/pkg/cli"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe - multi-provider content generation",
	Long: `Scribe sends one content request to every eligible LLM provider in
parallel, scores the drafts, and returns the best one with the target link
guaranteed to be present.

Configuration is read from --config (YAML) and SCRIBE_* environment
variables, e.g. SCRIBE_PROVIDERS_OPENAI_API_KEY.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a status derived from the
// error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and SCRIBE_* env only when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and per-provider details")
}
