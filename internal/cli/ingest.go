package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/silkmart/support-assistant/internal/bootstrap"
)

func newIngestCommand(app *bootstrap.App) *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load knowledge into the vector store",
	}

	var faqPath string
	faqCmd := &cobra.Command{
		Use:   "faq",
		Short: "Load the tab-separated FAQ file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.Ingest().LoadFAQFile(cmd.Context(), faqPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d FAQ entries (%d skipped), run %s\n", result.Loaded, result.Skipped, result.RunID)
			return nil
		},
	}
	faqCmd.Flags().StringVarP(&faqPath, "file", "f", "", "path to the FAQ file (default from config)")

	contentCmd := &cobra.Command{
		Use:   "content",
		Short: "Rescrape the configured page into the knowledge store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.Ingest().RefreshContent(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d page sections, run %s\n", result.Loaded, result.RunID)
			return nil
		},
	}

	ingestCmd.AddCommand(faqCmd, contentCmd)
	return ingestCmd
}
