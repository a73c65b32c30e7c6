package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newOutdatedCmd() *cobra.Command {
	var (
		jsonOut bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "outdated [path]",
		Short: "Compare pubspec dependencies against the registry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := "."
			if len(args) > 0 {
				projectPath = args[0]
			}

			svcs, _, err := newServices(projectPath, verbose)
			if err != nil {
				return err
			}

			statuses, err := svcs.deps.CheckDependencies(cmd.Context(), projectPath)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			for _, st := range statuses {
				switch {
				case st.LookupErr != "":
					fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-12s lookup failed: %s\n", st.Name, st.Declared, st.LookupErr)
				case st.UpToDate:
					fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-12s up to date\n", st.Name, st.Declared)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-12s latest %s\n", st.Name, st.Declared, st.Latest)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostics on stderr")
	return cmd
}
