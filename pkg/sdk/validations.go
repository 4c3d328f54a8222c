package sdk

import (
	"context"
	"net/http"
)

const ticketValidationsPath = "ticket-validations"

// ValidationsClient groups the staff ticket validation endpoint.
type ValidationsClient struct {
	c *Client
}

// Validate submits a presented ticket for validation. An INVALID or EXPIRED
// verdict is a successful call; inspect ValidationResult.Status.
func (v *ValidationsClient) Validate(ctx context.Context, input ValidateTicketInput) (*ValidationResult, error) {
	if err := requireID("ticket id", input.TicketID); err != nil {
		return nil, err
	}
	if input.Method == "" {
		input.Method = ValidationMethodQRScan
	}
	if _, err := ParseValidationMethod(string(input.Method)); err != nil {
		return nil, err
	}

	var result ValidationResult
	err := v.c.do(ctx, apiRequest{
		group:  "validations",
		method: http.MethodPost,
		path:   []string{ticketValidationsPath},
		body:   input,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
