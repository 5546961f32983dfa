package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate the environment setup file",
	Long: `Generate the shell-sourceable setup file for all registered packages.
The previous setup file at the destination is replaced atomically. Packages
without a resolved install path are skipped with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		out, err := m.Setup(cmd.Context())
		printWarnings(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	},
}
