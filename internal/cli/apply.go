package cli

import (
	"fmt"

	"github.com/obsenv-labs/obsenv/internal/envdef"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply-versions <file>",
	Short: "Resolve package versions from a definition file",
	Long: `Apply pinned versions from a name=version definition file (e.g. the
cycle build definitions) to the registry. Packages without a definition
are left unresolved and reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := envdef.ParseFile(args[0])
		if err != nil {
			return err
		}

		m, err := newManager()
		if err != nil {
			return err
		}

		out, err := m.ApplyVersions(cmd.Context(), defs)
		printWarnings(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	},
}
