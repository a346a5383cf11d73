package cli

import (
	"github.com/spf13/cobra"

	"github.com/silkmart/support-assistant/internal/bootstrap"
)

// NewRootCommand builds the command tree around a fully wired application.
func NewRootCommand(app *bootstrap.App) *cobra.Command {
	root := &cobra.Command{
		Use:   "support-assistant",
		Short: "Customer support assistant for the storefront",
		Long: `support-assistant answers customer questions by searching the FAQ and
scraped page content with embeddings and generating answers with an LLM.

Example usage:
  support-assistant serve            # start the HTTP API
  support-assistant chat             # interactive support session
  support-assistant ingest faq       # load the FAQ file
  support-assistant ingest content   # rescrape the configured page`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCommand(app),
		newChatCommand(app),
		newIngestCommand(app),
	)
	return root
}
