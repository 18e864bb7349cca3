package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/agrisense/pkg/models"
)

// buildIngestCmd creates the "ingest" command, a command-line front end
// onto the ingest(sensor, value, unit, timestamp, extras) ingress: it reads
// one JSON-encoded models.RawReading per line from stdin and enqueues each
// onto the Ingestion Pipeline, reporting acceptance or rejection.
func buildIngestCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Enqueue sensor readings from stdin (one JSON object per line)",
		Long: `Read newline-delimited JSON sensor readings from stdin and enqueue each
through the Ingestion Pipeline's validation, unit-canonicalization, and
batch-flush path.

Each line must decode to a raw reading object, e.g.:

  {"sensor":"temperature","value":23.4,"unit":"°C","timestamp":"2026-07-31T12:00:00Z"}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			a.pipeline.Start(ctx)
			defer a.pipeline.Stop()

			decoder := json.NewDecoder(cmd.InOrStdin())
			accepted, rejected := 0, 0
			for decoder.More() {
				var raw models.RawReading
				if err := decoder.Decode(&raw); err != nil {
					return fmt.Errorf("decode reading: %w", err)
				}
				rejection, err := a.pipeline.Enqueue(ctx, raw)
				if err != nil {
					return fmt.Errorf("enqueue reading: %w", err)
				}
				if rejection != nil {
					rejected++
					fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s\n", rejection.Error())
					continue
				}
				accepted++
			}

			stats := a.pipeline.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "accepted=%d rejected=%d committed=%d\n", accepted, rejected, stats.Committed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "agrisense.yaml", "Path to YAML configuration file")
	return cmd
}
