// Package cli implements the diaflow command-line interface.
//
// This package provides commands for converting diagrams between formats,
// inspecting and validating them, rendering previews and serving the HTTP
// conversion API. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Translate a diagram between the native, light and flow formats
//   - stats: Print node, arrow and person counts for a diagram
//   - validate: Check the structural invariants of a diagram file
//   - render: Generate a DOT or SVG preview of a diagram
//   - serve: Start the editor-facing HTTP conversion API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the diaflow CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands, loads the
// optional diaflow.toml configuration, configures logging based on the
// --verbose flag, and executes the command tree. The logger is attached to
// the context and accessible to all commands via loggerFromContext.
func Execute() error {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          "diaflow",
		Short:        "Diaflow converts node-graph workflow diagrams between formats",
		Long:         `Diaflow is the interchange engine for node-graph workflow diagrams: it converts between the full-fidelity native format, the compact label-based light format and the natural-language flow format, and can validate, inspect and render any of them.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("diaflow %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to diaflow.toml (default: ./diaflow.toml if present)")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return root.ExecuteContext(ctx)
}
