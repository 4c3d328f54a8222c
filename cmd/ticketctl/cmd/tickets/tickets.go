package tickets

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/pkg/sdk"
)

// TicketsCmd is the parent command for the signed-in user's tickets
var TicketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Buy and manage your tickets",
	Long:  `Commands for purchasing tickets and viewing the tickets you hold. Requires sign-in.`,
}

func init() {
	TicketsCmd.AddCommand(listCmd)
	TicketsCmd.AddCommand(getCmd)
	TicketsCmd.AddCommand(qrCmd)
	TicketsCmd.AddCommand(buyCmd)
}

func sdkClient(ctx context.Context) (*sdk.Client, error) {
	cfg := config.MustFromContext(ctx)
	return cfg.ClientProvider.SDKClient(ctx)
}
