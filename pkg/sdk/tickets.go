package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

const (
	ticketsPath = "tickets"
	qrCodesPath = "qr-codes"

	// maxArtifactBytes bounds binary downloads such as QR codes.
	maxArtifactBytes = 8 << 20
)

// TicketsClient groups the endpoints for the current user's tickets.
type TicketsClient struct {
	c *Client
}

// List returns a page of the current user's tickets.
func (t *TicketsClient) List(ctx context.Context, p PageRequest) (*Page[Ticket], error) {
	if err := validatePage(p); err != nil {
		return nil, err
	}
	var page Page[Ticket]
	err := t.c.do(ctx, apiRequest{
		group:  "tickets",
		method: http.MethodGet,
		path:   []string{ticketsPath},
		query:  pageQuery(p),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one of the current user's tickets.
func (t *TicketsClient) Get(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	if err := requireID("ticket id", id); err != nil {
		return nil, err
	}
	var ticket Ticket
	err := t.c.do(ctx, apiRequest{
		group:  "tickets",
		method: http.MethodGet,
		path:   []string{ticketsPath, id.String()},
	}, &ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// QRCode downloads the QR artifact of a ticket as rendered by the API.
func (t *TicketsClient) QRCode(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	if err := requireID("ticket id", id); err != nil {
		return nil, err
	}
	resp, err := t.c.send(ctx, apiRequest{
		group:  "tickets",
		method: http.MethodGet,
		path:   []string{ticketsPath, id.String(), qrCodesPath},
		accept: "image/png, image/*, application/octet-stream",
	})
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: resp.Request.URL.Redacted(), Err: err}
	}
	if len(data) > maxArtifactBytes {
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodGet,
			URL:        resp.Request.URL.Redacted(),
			Message:    fmt.Sprintf("artifact exceeds %d bytes", maxArtifactBytes),
			Err:        ErrMalformedResponse,
		}
	}
	return &Artifact{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// Purchase buys one ticket of ticketTypeID for eventID. The API may answer
// without a body, in which case the returned ticket is nil.
func (t *TicketsClient) Purchase(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*Ticket, error) {
	if err := requireID("event id", eventID); err != nil {
		return nil, err
	}
	if err := requireID("ticket type id", ticketTypeID); err != nil {
		return nil, err
	}
	var ticket Ticket
	err := t.c.do(ctx, apiRequest{
		group:      "tickets",
		method:     http.MethodPost,
		path:       []string{eventsPath, eventID.String(), ticketTypesPath, ticketTypeID.String(), ticketsPath},
		allowEmpty: true,
	}, &ticket)
	if err != nil {
		return nil, err
	}
	if ticket.ID == uuid.Nil {
		return nil, nil
	}
	return &ticket, nil
}
