// Package args parses positional command arguments and flag values into
// sdk input types.
package args

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/devtiro/tickets/pkg/sdk"
)

// ID parses a UUID argument named field.
func ID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, &sdk.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a valid ID", value)}
	}
	return id, nil
}

// Time parses a timestamp flag; empty yields the zero time.
func Time(field, value string) (sdk.LocalTime, error) {
	t, err := sdk.ParseLocalTime(value)
	if err != nil {
		return sdk.LocalTime{}, &sdk.ValidationError{Field: field, Reason: "use YYYY-MM-DDTHH:MM[:SS]"}
	}
	return t, nil
}

// TicketType parses NAME:PRICE[:TOTAL[:DESCRIPTION]]. An omitted or empty
// TOTAL means unlimited.
func TicketType(def string) (sdk.TicketTypeInput, error) {
	parts := strings.SplitN(def, ":", 4)
	invalid := func(reason string) error {
		return &sdk.ValidationError{Field: "ticket type", Reason: fmt.Sprintf("%q: %s", def, reason)}
	}
	if len(parts) < 2 {
		return sdk.TicketTypeInput{}, invalid("want NAME:PRICE[:TOTAL[:DESCRIPTION]]")
	}

	in := sdk.TicketTypeInput{Name: strings.TrimSpace(parts[0])}
	if in.Name == "" {
		return sdk.TicketTypeInput{}, invalid("name is required")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return sdk.TicketTypeInput{}, invalid("price must be a number")
	}
	in.Price = price

	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		total, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return sdk.TicketTypeInput{}, invalid("total must be an integer")
		}
		in.TotalAvailable = &total
	}
	if len(parts) > 3 {
		in.Description = strings.TrimSpace(parts[3])
	}
	return in, nil
}

// TicketTypes parses every definition in order.
func TicketTypes(defs []string) ([]sdk.TicketTypeInput, error) {
	out := make([]sdk.TicketTypeInput, 0, len(defs))
	for _, def := range defs {
		in, err := TicketType(def)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}
