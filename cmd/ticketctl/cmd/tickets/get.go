package tickets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
)

var getCmd = &cobra.Command{
	Use:   "get TICKET_ID",
	Short: "Show one of your tickets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		cfg := config.MustFromContext(cmd.Context())
		id, err := args.ID("ticket id", argv[0])
		if err != nil {
			return err
		}
		client, err := sdkClient(cmd.Context())
		if err != nil {
			return err
		}

		ticket, err := client.Tickets().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get ticket: %w", err)
		}
		return output.Render(cmd.OutOrStdout(), cfg.Output, ticket, output.TicketDetail(*ticket))
	},
}
