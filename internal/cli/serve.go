package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/flashcards/internal/entrypoint"
)

func newServeCommand(version string) *cobra.Command {
	var port int32

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if port > 0 {
				cfg.HTTP.Port = port
			}
			entrypoint.Run(cfg, version)
			return nil
		},
	}
	cmd.Flags().Int32Var(&port, "port", 0, "Port to listen on (overrides PORT)")
	return cmd
}
