package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/agrisense/internal/router"
)

// buildAskCmd creates the "ask" command, a command-line front end onto the
// same ask(query, session_id) ingress a Query API transport would expose.
func buildAskCmd() *cobra.Command {
	var (
		configPath string
		sessionID  string
		featCtx    string
		stream     bool
	)

	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Ask a natural-language question about sensor data",
		Example: `  agrisense ask "what is the average temperature today?"
  agrisense ask --session field-3 "is the humidity trending up?"
  agrisense ask --stream "why is the soil moisture dropping?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			req := router.Request{Query: args[0], SessionID: sessionID, FeatureContext: featCtx}
			if !stream {
				result := a.router.Ask(cmd.Context(), req)
				return printJSON(cmd, result)
			}

			for ev := range a.router.AskStream(cmd.Context(), req) {
				if err := printJSON(cmd, ev); err != nil {
					return err
				}
				if ev.Done {
					break
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "agrisense.yaml", "Path to YAML configuration file")
	cmd.Flags().StringVar(&sessionID, "session", "cli", "Session ID for conversation context")
	cmd.Flags().StringVar(&featCtx, "feature", "", "Feature context tag to echo back in the result")
	cmd.Flags().BoolVar(&stream, "stream", false, "Use the streaming ask_stream path instead of ask")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
