package organizer

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/pkg/sdk"
)

// OrganizerCmd groups the commands available to event organizers.
var OrganizerCmd = &cobra.Command{
	Use:   "organizer",
	Short: "Manage the events you organize",
	Long:  `Commands for event organizers. Requires a session with the ORGANIZER role.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		return cfg.ClientProvider.RequireRole(sdk.RoleOrganizer)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Create, list, update and delete your events",
}

func init() {
	OrganizerCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(listCmd)
	eventsCmd.AddCommand(getCmd)
	eventsCmd.AddCommand(createCmd)
	eventsCmd.AddCommand(updateCmd)
	eventsCmd.AddCommand(deleteCmd)
}

func sdkClient(ctx context.Context) (*sdk.Client, error) {
	cfg := config.MustFromContext(ctx)
	return cfg.ClientProvider.SDKClient(ctx)
}
