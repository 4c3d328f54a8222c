package sdk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtiro/tickets/internal/fakeapi"
	"github.com/devtiro/tickets/pkg/sdk"
)

func TestConnectionMonitor_Check(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		h := newHarness(t)
		report := sdk.NewConnectionMonitor(h.client, 0).Check(context.Background())
		assert.Equal(t, sdk.ConnectionConnected, report.Status)
		assert.NoError(t, report.Err)
		assert.False(t, report.CheckedAt.IsZero())

		reqs := h.api.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, fakeapi.BasePath+"/published-events", reqs[0].Path)
		assert.Equal(t, "size=1", reqs[0].Query)
	})

	t.Run("server error still counts as reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		client, err := sdk.NewClient(srv.URL, nil)
		require.NoError(t, err)

		report := sdk.NewConnectionMonitor(client, time.Second).Check(context.Background())
		assert.Equal(t, sdk.ConnectionConnected, report.Status)
		assert.Error(t, report.Err)
	})

	t.Run("disconnected", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		client, err := sdk.NewClient(url, nil)
		require.NoError(t, err)

		report := sdk.NewConnectionMonitor(client, time.Second).Check(context.Background())
		assert.Equal(t, sdk.ConnectionDisconnected, report.Status)
		var transport *sdk.TransportError
		assert.ErrorAs(t, report.Err, &transport)
	})
}

func TestConnectionMonitor_RunStopsOnCancel(t *testing.T) {
	h := newHarness(t)
	monitor := sdk.NewConnectionMonitor(h.client, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	reports := make(chan sdk.ConnectionReport, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run(ctx, func(r sdk.ConnectionReport) {
			select {
			case reports <- r:
			default:
			}
		})
	}()

	first := <-reports
	assert.Equal(t, sdk.ConnectionChecking, first.Status)
	for i := 0; i < 2; i++ {
		select {
		case r := <-reports:
			assert.Equal(t, sdk.ConnectionConnected, r.Status)
		case <-time.After(5 * time.Second):
			t.Fatal("no probe reported")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
