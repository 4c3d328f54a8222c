package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	publishedEventsPath = "published-events"
	eventsPath          = "events"
	ticketTypesPath     = "ticket-types"
)

// EventsClient groups the event endpoints: the public catalogue of published
// events and the organizer's own events.
type EventsClient struct {
	c *Client
}

// ListPublishedEventsInput filters the public catalogue.
type ListPublishedEventsInput struct {
	// Query is a free-text search; empty lists everything.
	Query string
	PageRequest
}

// ListPublished returns a page of published events.
func (e *EventsClient) ListPublished(ctx context.Context, input ListPublishedEventsInput) (*Page[Event], error) {
	if err := validatePage(input.PageRequest); err != nil {
		return nil, err
	}
	q := pageQuery(input.PageRequest)
	if query := strings.TrimSpace(input.Query); query != "" {
		q.Set("q", query)
	}

	var page Page[Event]
	err := e.c.do(ctx, apiRequest{
		group:  "events",
		method: http.MethodGet,
		path:   []string{publishedEventsPath},
		query:  q,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPublished fetches one published event.
func (e *EventsClient) GetPublished(ctx context.Context, id uuid.UUID) (*Event, error) {
	if err := requireID("event id", id); err != nil {
		return nil, err
	}
	var event Event
	err := e.c.do(ctx, apiRequest{
		group:  "events",
		method: http.MethodGet,
		path:   []string{publishedEventsPath, id.String()},
	}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListPublishedTicketTypes returns the ticket types on sale for a published
// event. The API answers either a bare array or a page; both are accepted.
func (e *EventsClient) ListPublishedTicketTypes(ctx context.Context, eventID uuid.UUID) ([]TicketType, error) {
	if err := requireID("event id", eventID); err != nil {
		return nil, err
	}
	var body ticketTypeList
	err := e.c.do(ctx, apiRequest{
		group:  "events",
		method: http.MethodGet,
		path:   []string{publishedEventsPath, eventID.String(), ticketTypesPath},
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.items, nil
}

// List returns a page of events owned by the current organizer.
func (e *EventsClient) List(ctx context.Context, p PageRequest) (*Page[Event], error) {
	if err := validatePage(p); err != nil {
		return nil, err
	}
	var page Page[Event]
	err := e.c.do(ctx, apiRequest{
		group:  "organizer",
		method: http.MethodGet,
		path:   []string{eventsPath},
		query:  pageQuery(p),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one organizer-owned event.
func (e *EventsClient) Get(ctx context.Context, id uuid.UUID) (*Event, error) {
	if err := requireID("event id", id); err != nil {
		return nil, err
	}
	var event Event
	err := e.c.do(ctx, apiRequest{
		group:  "organizer",
		method: http.MethodGet,
		path:   []string{eventsPath, id.String()},
	}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create creates an event owned by the current organizer.
func (e *EventsClient) Create(ctx context.Context, input CreateEventInput) (*Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var event Event
	err := e.c.do(ctx, apiRequest{
		group:  "organizer",
		method: http.MethodPost,
		path:   []string{eventsPath},
		body:   input,
	}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Update replaces an organizer-owned event.
func (e *EventsClient) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*Event, error) {
	if err := requireID("event id", id); err != nil {
		return nil, err
	}
	input.ID = id
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var event Event
	err := e.c.do(ctx, apiRequest{
		group:  "organizer",
		method: http.MethodPut,
		path:   []string{eventsPath, id.String()},
		body:   input,
	}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete removes an organizer-owned event.
func (e *EventsClient) Delete(ctx context.Context, id uuid.UUID) error {
	if err := requireID("event id", id); err != nil {
		return err
	}
	return e.c.do(ctx, apiRequest{
		group:  "organizer",
		method: http.MethodDelete,
		path:   []string{eventsPath, id.String()},
	}, nil)
}

// Validate checks the fields the API requires before a create is sent.
func (in CreateEventInput) Validate() error {
	if in.Status == "" {
		return &ValidationError{Field: "status", Reason: "is required"}
	}
	if len(in.TicketTypes) == 0 {
		return &ValidationError{Field: "ticket types", Reason: "at least one ticket type is required"}
	}
	return validateEventFields(in.Name, in.Venue, in.Start, in.End, in.SalesStart, in.SalesEnd, in.TicketTypes)
}

// Validate checks the fields the API requires before an update is sent.
func (in UpdateEventInput) Validate() error {
	return validateEventFields(in.Name, in.Venue, in.Start, in.End, in.SalesStart, in.SalesEnd, in.TicketTypes)
}

func validateEventFields(name, venue string, start, end, salesStart, salesEnd LocalTime, types []TicketTypeInput) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "event name is required"}
	}
	if strings.TrimSpace(venue) == "" {
		return &ValidationError{Field: "venue", Reason: "venue is required"}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end.Time) {
		return &ValidationError{Field: "start", Reason: "event start time must be before end time"}
	}
	if !salesStart.IsZero() && !salesEnd.IsZero() && salesStart.After(salesEnd.Time) {
		return &ValidationError{Field: "sales start", Reason: "sales start must be before sales end"}
	}
	for _, tt := range types {
		if strings.TrimSpace(tt.Name) == "" {
			return &ValidationError{Field: "ticket type name", Reason: "is required"}
		}
		if tt.Price < 0 {
			return &ValidationError{Field: "ticket type price", Reason: "must not be negative"}
		}
		if tt.TotalAvailable != nil && *tt.TotalAvailable < 0 {
			return &ValidationError{Field: "ticket type total available", Reason: "must not be negative"}
		}
	}
	return nil
}

func validatePage(p PageRequest) error {
	if p.Page < 0 {
		return &ValidationError{Field: "page", Reason: "must not be negative"}
	}
	if p.Size < 0 {
		return &ValidationError{Field: "size", Reason: "must not be negative"}
	}
	return nil
}

func requireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

// ticketTypeList decodes either a JSON array or a page envelope.
type ticketTypeList struct {
	items []TicketType
}

func (l *ticketTypeList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, &l.items)
	}
	var page Page[TicketType]
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	l.items = page.Content
	return nil
}
