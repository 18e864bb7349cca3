package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildAlertsCmd creates the "alerts" command group, a command-line front
// end onto the alert-management ingress surface: create_alert, list_alerts,
// delete_alert, monitor_alerts, list_actions.
func buildAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage and monitor sensor threshold alerts",
	}
	cmd.AddCommand(
		buildAlertsCreateCmd(),
		buildAlertsListCmd(),
		buildAlertsDeleteCmd(),
		buildAlertsMonitorCmd(),
		buildAlertsActionsCmd(),
	)
	return cmd
}

func buildAlertsCreateCmd() *cobra.Command {
	var configPath, sessionID string
	cmd := &cobra.Command{
		Use:   "create <natural language request>",
		Short: "Create an alert from a natural-language description",
		Example: `  agrisense alerts create --session field-3 "alert me when temperature exceeds 30"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			spec, err := a.router.CreateAlertFromText(cmd.Context(), args[0], sessionID)
			if err != nil {
				return err
			}
			return printJSON(cmd, spec)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "agrisense.yaml", "Path to YAML configuration file")
	cmd.Flags().StringVar(&sessionID, "session", "cli", "Session ID the alert belongs to")
	return cmd
}

func buildAlertsListCmd() *cobra.Command {
	var configPath, sessionID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts for a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			list, err := a.router.ListAlerts(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "agrisense.yaml", "Path to YAML configuration file")
	cmd.Flags().StringVar(&sessionID, "session", "cli", "Session ID to list alerts for")
	return cmd
}

func buildAlertsDeleteCmd() *cobra.Command {
	var configPath, sessionID string
	cmd := &cobra.Command{
		Use:   "delete <alert-id>",
		Short: "Delete an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			ok, err := a.router.DeleteAlert(cmd.Context(), args[0], sessionID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no alert %s found for session %s", args[0], sessionID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "agrisense.yaml", "Path to YAML configuration file")
	cmd.Flags().StringVar(&sessionID, "session", "cli", "Session ID the alert belongs to")
	return cmd
}

func buildAlertsMonitorCmd() *cobra.Command {
	var configPath, sessionID string
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Evaluate alerts for a session against the latest readings and dispatch any that trigger",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			triggered, err := a.router.MonitorAlerts(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			return printJSON(cmd, triggered)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "agrisense.yaml", "Path to YAML configuration file")
	cmd.Flags().StringVar(&sessionID, "session", "cli", "Session ID to evaluate alerts for")
	return cmd
}

func buildAlertsActionsCmd() *cobra.Command {
	var configPath, sessionID string
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List dispatched alert actions for a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			list, err := a.router.ListActions(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "agrisense.yaml", "Path to YAML configuration file")
	cmd.Flags().StringVar(&sessionID, "session", "cli", "Session ID to list dispatched actions for")
	return cmd
}
