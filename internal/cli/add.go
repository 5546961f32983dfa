package cli

import (
	"fmt"

	"github.com/obsenv-labs/obsenv/internal/registry"
	"github.com/spf13/cobra"
)

var (
	addKind    string
	addVersion string
	addPath    string
)

func init() {
	addCmd.Flags().StringVar(&addKind, "kind", "", "Package kind (core-control, instrument-standard-scripts, config-package)")
	addCmd.Flags().StringVar(&addVersion, "version", "", "Resolved version, tag, or branch")
	addCmd.Flags().StringVar(&addPath, "path", "", "Install path on the host")
	addCmd.MarkFlagRequired("kind")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a package to the managed set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := registry.ParseKind(addKind)
		if err != nil {
			return err
		}

		m, err := newManager()
		if err != nil {
			return err
		}

		out, err := m.AddPackage(cmd.Context(), registry.ManagedPackage{
			Name:        args[0],
			Kind:        kind,
			Version:     addVersion,
			InstallPath: addPath,
		})
		printWarnings(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	},
}
