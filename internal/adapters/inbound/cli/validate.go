package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluttervet/fluttervet/internal/adapters/outbound/tui"
)

func newValidateCmd() *cobra.Command {
	var (
		exclude []string
		jsonOut bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Run the analyzer against a project",
		Long:  "Run the Dart analyzer against the project and report issues. Exits 1 when any error-severity issue is found or the run fails.",
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

			all := append(append([]string{}, svcs.cfg.ExcludePaths...), exclude...)
			result := svcs.validate.Validate(cmd.Context(), svcs.cfg, projectPath, all)

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderValidation(result))
			}

			if !result.Success {
				return fmt.Errorf("validation failed: %s", result.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Path fragments to exclude from analysis")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the raw validation result as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostics on stderr")

	return cmd
}
