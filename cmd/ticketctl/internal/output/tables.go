package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/devtiro/tickets/pkg/sdk"
)

const timeLayout = "2006-01-02 15:04"

// When formats an API timestamp for a table cell.
func When(t sdk.LocalTime) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

// Price formats an amount with two decimals.
func Price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func available(n *int) string {
	if n == nil {
		return "unlimited"
	}
	return strconv.Itoa(*n)
}

// PageFooter describes where a page sits in its listing.
func PageFooter(w io.Writer, number, totalPages int, totalElements int64) {
	if totalPages == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	fmt.Fprintf(w, "Page %d of %d (%d total)\n", number+1, totalPages, totalElements)
}

func EventsTable(events []sdk.Event) TableFunc {
	return func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tVENUE\tSTART\tEND\tSTATUS")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, Truncate(e.Name, 40), Dash(Truncate(e.Venue, 30)), When(e.Start), When(e.End), e.Status)
		}
	}
}

func EventDetail(e sdk.Event) TableFunc {
	return func(w io.Writer) {
		fmt.Fprintf(w, "ID:\t%s\n", e.ID)
		fmt.Fprintf(w, "Name:\t%s\n", e.Name)
		fmt.Fprintf(w, "Venue:\t%s\n", Dash(e.Venue))
		fmt.Fprintf(w, "Status:\t%s\n", e.Status)
		fmt.Fprintf(w, "Starts:\t%s\n", When(e.Start))
		fmt.Fprintf(w, "Ends:\t%s\n", When(e.End))
		fmt.Fprintf(w, "Sales:\t%s .. %s\n", When(e.SalesStart), When(e.SalesEnd))
		if e.Organizer != nil {
			fmt.Fprintf(w, "Organizer:\t%s\n", Dash(e.Organizer.Name))
		}
		if len(e.TicketTypes) > 0 {
			fmt.Fprintln(w)
			TicketTypesTable(e.TicketTypes)(w)
		}
	}
}

func TicketTypesTable(types []sdk.TicketType) TableFunc {
	return func(w io.Writer) {
		fmt.Fprintln(w, "TICKET TYPE ID\tNAME\tPRICE\tAVAILABLE\tDESCRIPTION")
		for _, tt := range types {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				tt.ID, tt.Name, Price(tt.Price), available(tt.TotalAvailable), Dash(Truncate(tt.Description, 40)))
		}
	}
}

func TicketsTable(tickets []sdk.Ticket) TableFunc {
	return func(w io.Writer) {
		fmt.Fprintln(w, "ID\tSTATUS\tTICKET TYPE\tPRICE")
		for _, t := range tickets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Status, Dash(t.TicketType.Name), Price(t.TicketType.Price))
		}
	}
}

func TicketDetail(t sdk.Ticket) TableFunc {
	return func(w io.Writer) {
		fmt.Fprintf(w, "ID:\t%s\n", t.ID)
		fmt.Fprintf(w, "Status:\t%s\n", t.Status)
		fmt.Fprintf(w, "Ticket type:\t%s\n", Dash(t.TicketType.Name))
		fmt.Fprintf(w, "Price:\t%s\n", Price(t.TicketType.Price))
		if t.EventID != nil {
			fmt.Fprintf(w, "Event:\t%s\n", t.EventID)
		}
		if t.Purchaser != nil {
			fmt.Fprintf(w, "Purchaser:\t%s\n", Dash(t.Purchaser.Name))
		}
	}
}

func PrincipalDetail(p sdk.Principal) TableFunc {
	return func(w io.Writer) {
		fmt.Fprintf(w, "Subject:\t%s\n", Dash(p.SubjectID))
		fmt.Fprintf(w, "Name:\t%s\n", p.DisplayName)
		fmt.Fprintf(w, "Email:\t%s\n", p.Email)
		fmt.Fprintf(w, "Roles:\t%s\n", Dash(strings.Join(p.Roles.Slice(), ", ")))
	}
}

func ValidationDetail(r sdk.ValidationResult) TableFunc {
	return func(w io.Writer) {
		fmt.Fprintf(w, "Result:\t%s\n", r.Status)
		fmt.Fprintf(w, "Method:\t%s\n", Dash(string(r.Method)))
		if r.TicketID != uuid.Nil {
			fmt.Fprintf(w, "Ticket:\t%s\n", r.TicketID)
		}
		if r.Ticket != nil {
			fmt.Fprintf(w, "Ticket type:\t%s\n", Dash(r.Ticket.TicketType.Name))
		}
	}
}
