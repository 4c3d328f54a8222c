package organizer

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete EVENT_ID",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		cfg := config.MustFromContext(cmd.Context())
		id, err := args.ID("event id", argv[0])
		if err != nil {
			return err
		}

		if !deleteYes {
			if cfg.NonInteractive {
				return errors.New("refusing to delete without --yes in non-interactive mode")
			}
			confirmed, err := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete event %s?", id))
			if err != nil {
				return err
			}
			if !confirmed {
				output.Info(cmd.ErrOrStderr(), "Aborted")
				return nil
			}
		}

		client, err := sdkClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.Events().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		output.Success(cmd.ErrOrStderr(), "Deleted event %s", id)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
