package cli

import (
	"github.com/spf13/cobra"

	"github.com/diaflow/diaflow/internal/server"
)

// newServeCmd creates the serve command: start the editor-facing HTTP
// conversion API.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP conversion API",
		Long: `Serve exposes the engine over HTTP for the editor: format listing,
conversion between formats and handle connectability checks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			if addr == "" {
				addr = configFromContext(cmd.Context()).ListenAddr
			}
			srv := server.New(logger)
			logger.Info("listening", "addr", addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
