package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// buildServeCmd creates the "serve" command that starts the background
// long-lived tasks: the Ingestion Pipeline's single-writer worker and the
// Session Store's idle/expiry sweeper. The Query/Ingestion/Alert API
// transport itself is an external collaborator outside this module's
// scope; this command starts the process that would back it.
func buildServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestion worker and session sweeper",
		Long: `Start agrisense's background processes:

1. Load configuration from the specified file.
2. Open the sensor, session, and alert stores.
3. Start the Ingestion Pipeline's single-writer batch-flush worker.
4. Start the Session Store's idle/expiry sweeper.

Graceful shutdown is handled on SIGINT/SIGTERM signals.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "agrisense.yaml", "Path to YAML configuration file")
	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	a, err := buildApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a.pipeline.Start(ctx)
	a.sweeper.Start(ctx)

	a.logger.Info("agrisense started",
		"store_url", a.cfg.StoreURL,
		"ingest_batch_size", a.cfg.IngestBatchSize,
		"session_ttl_min", a.cfg.SessionTTLMin,
	)

	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping background workers")

	a.pipeline.Stop()
	a.sweeper.Stop()

	a.logger.Info("agrisense stopped gracefully")
	return nil
}
