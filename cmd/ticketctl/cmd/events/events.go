package events

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/pkg/sdk"
)

// EventsCmd is the parent command for browsing published events
var EventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse published events",
	Long:  `Commands for searching the public event catalogue. No sign-in is required.`,
}

func init() {
	EventsCmd.AddCommand(listCmd)
	EventsCmd.AddCommand(getCmd)
	EventsCmd.AddCommand(ticketTypesCmd)
}

func sdkClient(ctx context.Context) (*sdk.Client, error) {
	cfg := config.MustFromContext(ctx)
	return cfg.ClientProvider.SDKClient(ctx)
}
