// Package main provides the CLI entry point for agrisense, the
// agricultural sensor analytics service.
//
// agrisense turns a natural-language question about sensor readings into a
// structured result: it translates the question into a semantic
// intermediate representation, compiles that into SQL against the sensor
// store, runs it through a validating executor, and formats the result --
// falling back to a relaxed query, an LLM-authored query, or the most
// recent readings when the strict path comes back empty. It also accepts
// natural-language alert requests and evaluates them against incoming
// readings.
//
// # Basic Usage
//
// Start the server:
//
//	agrisense serve --config agrisense.yaml
//
// Ask a question from the command line:
//
//	agrisense ask "what is the average temperature today?"
//
// Ensure the on-disk schema is current:
//
//	agrisense migrate
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information, populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agrisense",
		Short: "agrisense - agricultural sensor analytics service",
		Long: `agrisense answers natural-language questions about agricultural sensor
readings and manages threshold alerts over them.

Ingress: ask/ask_stream (data + mixed queries), create_alert/list_alerts/
delete_alert/monitor_alerts/list_actions (alert management), ingest
(sensor readings).`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildServeCmd(),
		buildAskCmd(),
		buildIngestCmd(),
		buildAlertsCmd(),
		buildMigrateCmd(),
	)

	return rootCmd
}
