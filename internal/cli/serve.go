package cli

import (
	"github.com/spf13/cobra"

	"github.com/silkmart/support-assistant/internal/bootstrap"
)

func newServeCommand(app *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context())
		},
	}
}
