package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/colorcarbon/internal/log"
)

// NewRootCmd creates the root command for colorcarbon.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "colorcarbon",
		Short: "Estimate the carbon intensity of a website's or image's colors",
		Long: `colorcarbon scores colors by how much energy they tend to cost on screen.

Bright and blue-heavy colors score high; dark colors score low. The score is
a deterministic heuristic on a 0-100 scale, not a physical measurement.
Websites are scored from the colors in their CSS (style attributes and
linked stylesheets); images from their dominant colors.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewImageCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a bool flag from the command or its parents.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}

// setupLogger creates the redacting logger from the global flags.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	return log.New(cmd.ErrOrStderr(), log.Options{
		Verbose: getBoolFlag(cmd, "verbose"),
		JSON:    getBoolFlag(cmd, "log-json"),
	})
}
