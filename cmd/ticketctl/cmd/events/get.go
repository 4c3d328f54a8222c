package events

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
)

var getCmd = &cobra.Command{
	Use:   "get EVENT_ID",
	Short: "Show a published event and its ticket types",
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

		event, err := client.Events().GetPublished(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get event: %w", err)
		}
		return output.Render(cmd.OutOrStdout(), cfg.Output, event, output.EventDetail(*event))
	},
}
