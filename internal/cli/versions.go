package cli

import (
	"fmt"

	"github.com/obsenv-labs/obsenv/internal/version"
	"github.com/spf13/cobra"
)

var versionsTags bool

func init() {
	versionsCmd.Flags().BoolVar(&versionsTags, "tags", false, "Print release versions as expanded tag names")
	rootCmd.AddCommand(versionsCmd)
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Show the resolved version of every managed package",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		pkgs, err := m.ListPackages(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range pkgs {
			v := p.Version
			if v == "" {
				v = "unresolved"
			} else if versionsTags {
				v = version.ExpandTag(v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", p.Name, v)
		}
		return nil
	},
}
