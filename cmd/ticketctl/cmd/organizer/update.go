package organizer

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/pkg/sdk"
)

var updateFlags eventFlags

var updateCmd = &cobra.Command{
	Use:   "update EVENT_ID",
	Short: "Update an event",
	Long: `Updates the flags you pass and keeps every other field as it is.
Passing --ticket-type replaces all ticket types of the event.`,
	Example: `  ticketctl organizer events update 7f1d2c9e-... --status PUBLISHED`,
	Args:    cobra.ExactArgs(1),
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

		current, err := client.Events().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to load event: %w", err)
		}
		input, err := buildUpdateInput(*current, &updateFlags, cmd.Flags())
		if err != nil {
			return err
		}

		event, err := client.Events().Update(cmd.Context(), id, input)
		if err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		output.Success(cmd.ErrOrStderr(), "Updated event %s", event.ID)
		return output.Render(cmd.OutOrStdout(), cfg.Output, event, output.EventDetail(*event))
	},
}

// buildUpdateInput overlays the flags set in fs onto current.
func buildUpdateInput(current sdk.Event, f *eventFlags, fs *pflag.FlagSet) (sdk.UpdateEventInput, error) {
	input := sdk.UpdateEventInput{
		ID:          current.ID,
		Name:        current.Name,
		Venue:       current.Venue,
		Start:       current.Start,
		End:         current.End,
		SalesStart:  current.SalesStart,
		SalesEnd:    current.SalesEnd,
		Status:      current.Status,
		TicketTypes: ticketTypeInputs(current.TicketTypes),
	}

	if fs.Changed("name") {
		input.Name = f.name
	}
	if fs.Changed("venue") {
		input.Venue = f.venue
	}
	if fs.Changed("status") {
		status, err := sdk.ParseEventStatus(f.status)
		if err != nil {
			return input, err
		}
		input.Status = status
	}
	t, err := f.times()
	if err != nil {
		return input, err
	}
	if fs.Changed("start") {
		input.Start = t.start
	}
	if fs.Changed("end") {
		input.End = t.end
	}
	if fs.Changed("sales-start") {
		input.SalesStart = t.salesStart
	}
	if fs.Changed("sales-end") {
		input.SalesEnd = t.salesEnd
	}
	if fs.Changed("ticket-type") {
		types, err := args.TicketTypes(f.ticketTypes)
		if err != nil {
			return input, err
		}
		input.TicketTypes = types
	}
	return input, input.Validate()
}

func ticketTypeInputs(types []sdk.TicketType) []sdk.TicketTypeInput {
	out := make([]sdk.TicketTypeInput, 0, len(types))
	for _, tt := range types {
		id := tt.ID
		out = append(out, sdk.TicketTypeInput{
			ID:             &id,
			Name:           tt.Name,
			Description:    tt.Description,
			Price:          tt.Price,
			TotalAvailable: tt.TotalAvailable,
		})
	}
	return out
}

func init() {
	updateFlags.register(updateCmd, "")
}
