package organizer

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/pkg/sdk"
)

// eventFlags are shared by create and update.
type eventFlags struct {
	name        string
	venue       string
	start       string
	end         string
	salesStart  string
	salesEnd    string
	status      string
	ticketTypes []string
}

func (f *eventFlags) register(cmd *cobra.Command, defaultStatus string) {
	cmd.Flags().StringVar(&f.name, "name", "", "Event name")
	cmd.Flags().StringVar(&f.venue, "venue", "", "Venue")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time (YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&f.end, "end", "", "End time (YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&f.salesStart, "sales-start", "", "Ticket sales open (YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&f.salesEnd, "sales-end", "", "Ticket sales close (YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&f.status, "status", defaultStatus, "DRAFT, PUBLISHED, CANCELLED or COMPLETED")
	cmd.Flags().StringArrayVar(&f.ticketTypes, "ticket-type", nil, "Ticket type as NAME:PRICE[:TOTAL[:DESCRIPTION]] (repeatable)")
}

type eventTimes struct {
	start, end, salesStart, salesEnd sdk.LocalTime
}

func (f *eventFlags) times() (eventTimes, error) {
	var t eventTimes
	var err error
	if t.start, err = args.Time("start", f.start); err != nil {
		return t, err
	}
	if t.end, err = args.Time("end", f.end); err != nil {
		return t, err
	}
	if t.salesStart, err = args.Time("sales start", f.salesStart); err != nil {
		return t, err
	}
	if t.salesEnd, err = args.Time("sales end", f.salesEnd); err != nil {
		return t, err
	}
	return t, nil
}

var createFlags eventFlags

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event",
	Example: `  ticketctl organizer events create --name "Jazz Night" --venue "Blue Hall" \
    --start 2026-11-01T20:00 --end 2026-11-01T23:00 \
    --ticket-type "General:50:200" --ticket-type "VIP:120:20:Front row"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, argv []string) error {
		cfg := config.MustFromContext(cmd.Context())
		input, err := buildCreateInput(&createFlags)
		if err != nil {
			return err
		}
		client, err := sdkClient(cmd.Context())
		if err != nil {
			return err
		}

		event, err := client.Events().Create(cmd.Context(), input)
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		output.Success(cmd.ErrOrStderr(), "Created event %s", event.ID)
		return output.Render(cmd.OutOrStdout(), cfg.Output, event, output.EventDetail(*event))
	},
}

func buildCreateInput(f *eventFlags) (sdk.CreateEventInput, error) {
	status, err := sdk.ParseEventStatus(f.status)
	if err != nil {
		return sdk.CreateEventInput{}, err
	}
	t, err := f.times()
	if err != nil {
		return sdk.CreateEventInput{}, err
	}
	types, err := args.TicketTypes(f.ticketTypes)
	if err != nil {
		return sdk.CreateEventInput{}, err
	}
	input := sdk.CreateEventInput{
		Name:        f.name,
		Venue:       f.venue,
		Start:       t.start,
		End:         t.end,
		SalesStart:  t.salesStart,
		SalesEnd:    t.salesEnd,
		Status:      status,
		TicketTypes: types,
	}
	return input, input.Validate()
}

func init() {
	createFlags.register(createCmd, string(sdk.EventStatusDraft))
}
