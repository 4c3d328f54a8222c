package tickets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/pkg/sdk"
)

var (
	listPage int
	listSize int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tickets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		client, err := sdkClient(cmd.Context())
		if err != nil {
			return err
		}

		page, err := client.Tickets().List(cmd.Context(), sdk.PageRequest{Page: listPage, Size: listSize})
		if err != nil {
			return fmt.Errorf("failed to list tickets: %w", err)
		}
		if err := output.Render(cmd.OutOrStdout(), cfg.Output, page, output.TicketsTable(page.Content)); err != nil {
			return err
		}
		if cfg.Output == output.FormatTable {
			output.PageFooter(cmd.OutOrStdout(), page.Number, page.TotalPages, page.TotalElements)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "Zero-based page number")
	listCmd.Flags().IntVar(&listSize, "size", 0, "Page size (server default when 0)")
}
