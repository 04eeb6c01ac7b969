// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"uguulink/internal/config"
	"uguulink/internal/logger"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagFormat    string
	flagOutputDir string
	flagEndpoint  string
	flagNoHistory bool
	flagJSON      bool
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < env < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "uguulink",
	Short: "Upload rendered videos to uguu.se and print the link",
	Long: `uguulink resolves a video produced by a node-graph pipeline into a local file,
uploads it to uguu.se and prints the resulting link.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// outputError carries a node output that is already a complete error
// message ("Error: ..." or "HTTP Error: ...").
type outputError string

func (e outputError) Error() string { return string(e) }

func reportError(w io.Writer, err error) {
	var out outputError
	if errors.As(err, &out) {
		fmt.Fprintln(w, out)
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Response format: text | json | csv | html | gyazo")
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Host output directory used for (filename, subfolder) inputs")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "Upload endpoint (HTTPS)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record uploads in the history")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < env < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagFormat != "" {
		cfg.OutputFormat = flagFormat
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagEndpoint != "" {
		cfg.Endpoint = flagEndpoint
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return logger.Initialize(logger.Config{Debug: cfg.Debug, Quiet: flagJSON})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "uguulink %s\n", Version)
	},
}
