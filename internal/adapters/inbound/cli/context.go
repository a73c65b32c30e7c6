package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newContextCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "context [path]",
		Short: "Print the heuristic project context as JSON",
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

			pc, err := svcs.contexts.BuildContext(cmd.Context(), projectPath, svcs.cfg.ExcludePaths)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pc)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostics on stderr")
	return cmd
}
