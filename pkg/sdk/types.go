package sdk

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusCompleted EventStatus = "COMPLETED"
)

// ParseEventStatus accepts a status name case-insensitively.
func ParseEventStatus(s string) (EventStatus, error) {
	status := EventStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return status, nil
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown event status %q", s)}
}

// TicketStatus is the state of a purchased ticket.
type TicketStatus string

const (
	TicketStatusPurchased TicketStatus = "PURCHASED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// ValidationMethod is how a ticket was presented at the door.
type ValidationMethod string

const (
	ValidationMethodQRScan ValidationMethod = "QR_SCAN"
	ValidationMethodManual ValidationMethod = "MANUAL"
)

// ParseValidationMethod accepts a method name case-insensitively.
func ParseValidationMethod(s string) (ValidationMethod, error) {
	method := ValidationMethod(strings.ToUpper(strings.TrimSpace(s)))
	switch method {
	case ValidationMethodQRScan, ValidationMethodManual:
		return method, nil
	}
	return "", &ValidationError{Field: "method", Reason: fmt.Sprintf("unknown validation method %q", s)}
}

// ValidationStatus is the outcome of validating a ticket.
type ValidationStatus string

const (
	ValidationStatusValid   ValidationStatus = "VALID"
	ValidationStatusInvalid ValidationStatus = "INVALID"
	ValidationStatusExpired ValidationStatus = "EXPIRED"
)

// localTimeLayout is the zone-less ISO-8601 form the API exchanges.
const localTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a wall-clock timestamp without zone, as sent by the API.
// RFC 3339 input is accepted and converted to the local zone.
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps t.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(localTimeLayout))
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseLocalTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed.Time
	return nil
}

func (t LocalTime) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(localTimeLayout), nil
}

// ParseLocalTime parses the API timestamp forms: zone-less ISO-8601 with
// optional fractional seconds, or RFC 3339.
func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LocalTime{}, nil
	}
	for _, layout := range []string{localTimeLayout, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalTime{Time: parsed}, nil
		}
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return LocalTime{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return LocalTime{Time: parsed.Local()}, nil
}

// PageRequest selects a page of a listing. Pages are zero-based.
// A zero Size leaves paging to the server default.
type PageRequest struct {
	Page int
	Size int
}

// Page is one page of a listing in the API's paging envelope.
type Page[T any] struct {
	Content       []T   `json:"content" yaml:"content"`
	TotalElements int64 `json:"totalElements" yaml:"total_elements"`
	TotalPages    int   `json:"totalPages" yaml:"total_pages"`
	Number        int   `json:"number" yaml:"number"`
	Size          int   `json:"size" yaml:"size"`
	First         bool  `json:"first" yaml:"first"`
	Last          bool  `json:"last" yaml:"last"`
}

// User is the public view of an account attached to events and tickets.
type User struct {
	ID    uuid.UUID `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Email string    `json:"email" yaml:"email"`
}

// TicketType is a purchasable class of ticket for an event.
type TicketType struct {
	ID             uuid.UUID `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"`
	Price          float64   `json:"price" yaml:"price"`
	TotalAvailable *int      `json:"totalAvailable,omitempty" yaml:"total_available,omitempty"`
}

// Event is an event as listed or fetched from the API.
type Event struct {
	ID          uuid.UUID    `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Venue       string       `json:"venue,omitempty" yaml:"venue,omitempty"`
	Start       LocalTime    `json:"start" yaml:"start"`
	End         LocalTime    `json:"end" yaml:"end"`
	SalesStart  LocalTime    `json:"salesStart" yaml:"sales_start"`
	SalesEnd    LocalTime    `json:"salesEnd" yaml:"sales_end"`
	Status      EventStatus  `json:"status" yaml:"status"`
	TicketTypes []TicketType `json:"ticketTypes,omitempty" yaml:"ticket_types,omitempty"`
	Organizer   *User        `json:"organizer,omitempty" yaml:"organizer,omitempty"`
}

// TicketTypeInput describes a ticket type when creating or updating an event.
// ID is set only when updating an existing ticket type.
type TicketTypeInput struct {
	ID             *uuid.UUID `json:"id,omitempty"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Price          float64    `json:"price"`
	TotalAvailable *int       `json:"totalAvailable,omitempty"`
}

// CreateEventInput is the body of an organizer event creation.
type CreateEventInput struct {
	Name        string            `json:"name"`
	Venue       string            `json:"venue"`
	Start       LocalTime         `json:"start"`
	End         LocalTime         `json:"end"`
	SalesStart  LocalTime         `json:"salesStart"`
	SalesEnd    LocalTime         `json:"salesEnd"`
	Status      EventStatus       `json:"status"`
	TicketTypes []TicketTypeInput `json:"ticketTypes"`
}

// UpdateEventInput is the body of an organizer event update.
type UpdateEventInput struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Venue       string            `json:"venue"`
	Start       LocalTime         `json:"start"`
	End         LocalTime         `json:"end"`
	SalesStart  LocalTime         `json:"salesStart"`
	SalesEnd    LocalTime         `json:"salesEnd"`
	Status      EventStatus       `json:"status,omitempty"`
	TicketTypes []TicketTypeInput `json:"ticketTypes,omitempty"`
}

// Ticket is a ticket owned by the current user.
type Ticket struct {
	ID         uuid.UUID    `json:"id" yaml:"id"`
	Status     TicketStatus `json:"status" yaml:"status"`
	TicketType TicketType   `json:"ticketType" yaml:"ticket_type"`
	Purchaser  *User        `json:"purchaser,omitempty" yaml:"purchaser,omitempty"`
	EventID    *uuid.UUID   `json:"eventId,omitempty" yaml:"event_id,omitempty"`
}

// Artifact is a binary resource, such as a ticket QR code.
type Artifact struct {
	ContentType string
	Data        []byte
}

// ValidateTicketInput asks the API to validate a presented ticket.
type ValidateTicketInput struct {
	TicketID uuid.UUID        `json:"id"`
	Method   ValidationMethod `json:"method"`
}

// ValidationResult is the API's verdict on a presented ticket.
type ValidationResult struct {
	ID       uuid.UUID        `json:"id" yaml:"id"`
	TicketID uuid.UUID        `json:"ticketId,omitempty" yaml:"ticket_id,omitempty"`
	Status   ValidationStatus `json:"status" yaml:"status"`
	Method   ValidationMethod `json:"validationMethod,omitempty" yaml:"method,omitempty"`
	Ticket   *Ticket          `json:"ticket,omitempty" yaml:"ticket,omitempty"`
}

// Valid reports whether the ticket was accepted.
func (r ValidationResult) Valid() bool {
	return r.Status == ValidationStatusValid
}
