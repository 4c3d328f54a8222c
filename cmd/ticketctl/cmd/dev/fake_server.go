package dev

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/internal/fakeapi"
	"github.com/devtiro/tickets/pkg/sdk"
)

var (
	addr string
	seed bool
)

// Demo principals minted by the fake server at startup.
var (
	demoOrganizer = fakeapi.TokenClaims{Subject: "5b6f3a1e-4d1c-4a36-9b1e-0c8f2d7a9e01", Name: "Olivia Organizer", Email: "olivia@example.com", Roles: []string{sdk.RoleOrganizer}}
	demoStaff     = fakeapi.TokenClaims{Subject: "8c2e9d4f-7b3a-4f10-8e5d-1a6b3c9d2e02", Name: "Sam Staff", Email: "sam@example.com", Roles: []string{sdk.RoleStaff}}
	demoAttendee  = fakeapi.TokenClaims{Subject: "2d7a1c5e-9f4b-4e28-a3c6-7b1d8e4f5a03", Name: "Alex Attendee", Email: "alex@example.com", Roles: []string{}}
)

var fakeServerCmd = &cobra.Command{
	Use:   "fake-server",
	Short: "Run an in-memory ticketing API",
	Long: `Serves an in-memory implementation of the ticketing API for trying the
CLI without a backend. Tokens are accepted without signature checks; bind it
to localhost only. Prints ready-made tokens for an organizer, a staff member
and an attendee.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		log := cfg.Logger.With("component", "fakeapi")

		api := fakeapi.New()
		if seed {
			seedDemoEvents(api, time.Now())
		}

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
		srv := &http.Server{Handler: api.Handler(), ReadHeaderTimeout: 5 * time.Second}

		printBanner(cmd.ErrOrStderr(), "http://"+ln.Addr().String()+fakeapi.BasePath)
		log.Info("fake API listening", "addr", ln.Addr().String())

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Serve(ln)
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cmd.Context().Done():
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down fake API")
		return srv.Shutdown(ctx)
	},
}

func printBanner(w io.Writer, baseURL string) {
	output.Section(w, "Fake ticketing API")
	output.Info(w, "Base URL: %s", baseURL)
	output.Info(w, "Point the CLI at it with --server %s or TICKETS_API_BASE_URL", baseURL)
	for _, demo := range []struct {
		label  string
		claims fakeapi.TokenClaims
	}{
		{"organizer", demoOrganizer},
		{"staff", demoStaff},
		{"attendee", demoAttendee},
	} {
		fmt.Fprintf(w, "\n%s token:\n  ticketctl auth login --token %s\n", demo.label, fakeapi.Token(demo.claims))
	}
}

// seedDemoEvents publishes a few events relative to now.
func seedDemoEvents(api *fakeapi.Server, now time.Time) {
	day := func(d int, hour int) sdk.LocalTime {
		t := now.AddDate(0, 0, d)
		return sdk.NewLocalTime(time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.Local))
	}
	limited := func(n int) *int { return &n }

	api.AddEvent(demoOrganizer.Subject, sdk.Event{
		Name:       "Jazz Night",
		Venue:      "Blue Note Hall",
		Start:      day(14, 20),
		End:        day(14, 23),
		SalesStart: day(-7, 9),
		SalesEnd:   day(14, 19),
		Status:     sdk.EventStatusPublished,
		TicketTypes: []sdk.TicketType{
			{Name: "General Admission", Price: 45, TotalAvailable: limited(200)},
			{Name: "VIP", Description: "Front row and a drink", Price: 120, TotalAvailable: limited(20)},
		},
	})
	api.AddEvent(demoOrganizer.Subject, sdk.Event{
		Name:        "City Marathon Expo",
		Venue:       "Convention Center",
		Start:       day(30, 9),
		End:         day(31, 17),
		Status:      sdk.EventStatusPublished,
		TicketTypes: []sdk.TicketType{{Name: "Day Pass", Price: 10}},
	})
	api.AddEvent(demoOrganizer.Subject, sdk.Event{
		Name:        "Winter Gala",
		Venue:       "Grand Hotel",
		Start:       day(60, 19),
		End:         day(60, 23),
		Status:      sdk.EventStatusDraft,
		TicketTypes: []sdk.TicketType{{Name: "Dinner", Price: 150, TotalAvailable: limited(80)}},
	})
}

func init() {
	fakeServerCmd.Flags().StringVar(&addr, "addr", "localhost:8085", "Listen address")
	fakeServerCmd.Flags().BoolVar(&seed, "seed", true, "Publish demo events at startup")
}
