package cli

import (
	"fmt"

	"github.com/obsenv-labs/obsenv/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	topicsCmd.AddCommand(topicsCreateCmd)
	rootCmd.AddCommand(topicsCmd)
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage telemetry topics",
}

var topicsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the action and summary topics on the telemetry cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newTelemetryClient()
		if client == nil {
			return fmt.Errorf("no telemetry proxy configured; set %s first", config.KeyTelemetryURL)
		}
		if err := client.CreateTopics(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Telemetry topics are in place.")
		return nil
	},
}
