package events

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
)

var ticketTypesCmd = &cobra.Command{
	Use:   "ticket-types EVENT_ID",
	Short: "List the ticket types on sale for a published event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		cfg := config.MustFromContext(cmd.Context())
		id, err := args.ID("event id", argv[0])
		if err != nil {
			return err
		}
		client, err := sdkClient(cmd.Context())
		if err != nil {
			return err
		}

		types, err := client.Events().ListPublishedTicketTypes(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list ticket types: %w", err)
		}
		return output.Render(cmd.OutOrStdout(), cfg.Output, types, output.TicketTypesTable(types))
	},
}
