package cli

import (
	"github.com/spf13/cobra"

	"github.com/fluttervet/fluttervet/internal/adapters/inbound/rpc"
	configloader "github.com/fluttervet/fluttervet/internal/adapters/outbound/config"
)

func newServeCmd() *cobra.Command {
	var (
		projectPath string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool protocol over stdio",
		Long:  "Start the JSON-RPC tool server on stdin/stdout. One JSON object per line in both directions; diagnostics go to stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}

			svcs, logger, err := newServices(projectPath, verbose)
			if err != nil {
				return err
			}

			// The analyzer identity is resolved exactly once here and
			// threaded through; handlers never probe it lazily.
			analyzerVersion := configloader.ResolveAnalyzerVersion(svcs.runner, svcs.cfg.AnalyzerBin)

			server := rpc.NewServer(
				version, analyzerVersion, projectPath,
				svcs.cfg,
				svcs.validate, svcs.contexts, svcs.advice, svcs.deps,
				logger,
			)
			return server.Start()
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostics on stderr")
	return cmd
}
