package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/silkmart/support-assistant/internal/bootstrap"
	"github.com/silkmart/support-assistant/internal/domain/assistant"
)

func newChatCommand(app *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive support session on the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, app)
		},
	}
}

func runChat(cmd *cobra.Command, app *bootstrap.App) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Welcome to customer support. How can I help you today?")
	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "1) Ask a question")
		fmt.Fprintln(out, "2) Reload the FAQ file")
		fmt.Fprintln(out, "3) Refresh page content")
		fmt.Fprintln(out, "4) Exit")
		fmt.Fprint(out, "> ")

		choice, ok := readLine(in)
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			if err := askQuestion(cmd, app, in, out); err != nil {
				return err
			}
		case "2":
			result, err := app.Ingest().LoadFAQFile(cmd.Context(), "")
			if err != nil {
				fmt.Fprintf(out, "FAQ reload failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "FAQ reloaded: %d entries loaded, %d skipped.\n", result.Loaded, result.Skipped)
		case "3":
			result, err := app.Ingest().RefreshContent(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "Content refresh failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Page content refreshed: %d sections stored.\n", result.Loaded)
		case "4":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(out, "Please choose 1, 2, 3 or 4.")
		}
	}
}

func askQuestion(cmd *cobra.Command, app *bootstrap.App, in *bufio.Scanner, out io.Writer) error {
	fmt.Fprint(out, "Your question: ")
	question, ok := readLine(in)
	if !ok {
		return nil
	}

	resp := app.Assistant().Answer(cmd.Context(), assistant.Request{Question: question})
	fmt.Fprintln(out)
	fmt.Fprintln(out, resp.Answer)
	if len(resp.Recommendations) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Customers also asked:")
		for _, rec := range resp.Recommendations {
			fmt.Fprintf(out, "  - %s\n", rec.Query)
		}
	}
	return nil
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return in.Text(), true
}
