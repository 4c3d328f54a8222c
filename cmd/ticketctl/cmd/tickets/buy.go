package tickets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
)

var buyCmd = &cobra.Command{
	Use:   "buy EVENT_ID TICKET_TYPE_ID",
	Short: "Buy a ticket",
	Long: `Purchases one ticket of the given ticket type. Find ticket type IDs with
"ticketctl events ticket-types EVENT_ID".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, argv []string) error {
		cfg := config.MustFromContext(cmd.Context())
		eventID, err := args.ID("event id", argv[0])
		if err != nil {
			return err
		}
		ticketTypeID, err := args.ID("ticket type id", argv[1])
		if err != nil {
			return err
		}
		client, err := sdkClient(cmd.Context())
		if err != nil {
			return err
		}

		ticket, err := client.Tickets().Purchase(cmd.Context(), eventID, ticketTypeID)
		if err != nil {
			return fmt.Errorf("failed to purchase ticket: %w", err)
		}
		if ticket == nil {
			output.Success(cmd.ErrOrStderr(), "Ticket purchased. Run `ticketctl tickets list` to see it.")
			return nil
		}
		output.Success(cmd.ErrOrStderr(), "Ticket purchased")
		return output.Render(cmd.OutOrStdout(), cfg.Output, ticket, output.TicketDetail(*ticket))
	},
}
