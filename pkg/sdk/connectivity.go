package sdk

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// DefaultProbeInterval matches how often the status indicator re-checks the API.
const DefaultProbeInterval = 30 * time.Second

// ConnectionStatus is the last known reachability of the API.
type ConnectionStatus string

const (
	ConnectionChecking     ConnectionStatus = "checking"
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionDisconnected ConnectionStatus = "disconnected"
)

// ConnectionReport is one probe outcome.
type ConnectionReport struct {
	Status    ConnectionStatus
	CheckedAt time.Time
	Latency   time.Duration
	// Err is the probe failure when Status is ConnectionDisconnected.
	Err error
}

// ConnectionMonitor periodically probes the public catalogue to tell whether
// the API is reachable.
type ConnectionMonitor struct {
	client   *Client
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

// NewConnectionMonitor creates a monitor probing every interval. A
// non-positive interval selects DefaultProbeInterval.
func NewConnectionMonitor(client *Client, interval time.Duration) *ConnectionMonitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	timeout := interval
	if timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	return &ConnectionMonitor{client: client, interval: interval, timeout: timeout, now: time.Now}
}

// Check runs a single probe. Any response from the API other than a transport
// failure, including a 401, counts as reachable.
func (m *ConnectionMonitor) Check(ctx context.Context) ConnectionReport {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := m.now()
	resp, err := m.client.send(ctx, apiRequest{
		group:  "connectivity",
		method: http.MethodGet,
		path:   []string{publishedEventsPath},
		query:  pageQuery(PageRequest{Size: 1}),
	})
	report := ConnectionReport{CheckedAt: start, Latency: m.now().Sub(start)}
	if resp != nil {
		drain(resp)
	}

	var transport *TransportError
	switch {
	case err == nil:
		report.Status = ConnectionConnected
	case errors.As(err, &transport):
		report.Status = ConnectionDisconnected
		report.Err = err
	default:
		report.Status = ConnectionConnected
		report.Err = err
	}
	return report
}

// Run reports ConnectionChecking, probes immediately and then every interval
// until ctx is done. No report is delivered after ctx is cancelled.
func (m *ConnectionMonitor) Run(ctx context.Context, report func(ConnectionReport)) {
	deliver := func(r ConnectionReport) {
		if ctx.Err() != nil {
			return
		}
		report(r)
	}

	deliver(ConnectionReport{Status: ConnectionChecking, CheckedAt: m.now()})
	deliver(m.Check(ctx))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deliver(m.Check(ctx))
		}
	}
}
