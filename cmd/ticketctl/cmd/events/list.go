package events

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/pkg/sdk"
)

var (
	listQuery string
	listPage  int
	listSize  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List published events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		client, err := sdkClient(cmd.Context())
		if err != nil {
			return err
		}

		page, err := client.Events().ListPublished(cmd.Context(), sdk.ListPublishedEventsInput{
			Query:       listQuery,
			PageRequest: sdk.PageRequest{Page: listPage, Size: listSize},
		})
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		if err := output.Render(cmd.OutOrStdout(), cfg.Output, page, output.EventsTable(page.Content)); err != nil {
			return err
		}
		if cfg.Output == output.FormatTable {
			output.PageFooter(cmd.OutOrStdout(), page.Number, page.TotalPages, page.TotalElements)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search event names and venues")
	listCmd.Flags().IntVar(&listPage, "page", 0, "Zero-based page number")
	listCmd.Flags().IntVar(&listSize, "size", 0, "Page size (server default when 0)")
}
