package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a managed package for display.
type listEntry struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Version string `json:"version,omitempty"`
	Path    string `json:"path,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed packages",
	Long:  `List all packages in the environment registry, in setup order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		pkgs, err := m.ListPackages(cmd.Context())
		if err != nil {
			return err
		}

		entries := make([]listEntry, 0, len(pkgs))
		for _, p := range pkgs {
			entries = append(entries, listEntry{
				Name:    p.Name,
				Kind:    p.Kind.String(),
				Version: p.Version,
				Path:    p.InstallPath,
			})
		}

		if listJSON {
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling package list: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tVERSION\tPATH")
		for _, e := range entries {
			version := e.Version
			if version == "" {
				version = "-"
			}
			path := e.Path
			if path == "" {
				path = "(unresolved)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Kind, version, path)
		}
		return w.Flush()
	},
}
