package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/auth"
	"github.com/devtiro/tickets/pkg/sdk"
)

// ErrAccessDenied is returned when the session lacks the role a command needs.
var ErrAccessDenied = errors.New("access denied")

// Options configures a Provider.
type Options struct {
	ServerURL string
	// Home is the credential directory; empty selects ~/.ticketctl.
	Home    string
	Timeout time.Duration
	Logger  *slog.Logger
	// Out receives the re-login notice after the API rejects the session.
	Out io.Writer
}

// Provider yields the identity store and SDK client shared by all commands,
// both built lazily on first use.
type Provider struct {
	opts        Options
	bearerToken string // ephemeral token that bypasses the credential store

	registry *prometheus.Registry

	identityOnce sync.Once
	identity     *sdk.IdentityStore
	identityErr  error

	sdkOnce   sync.Once
	sdkClient *sdk.Client
	sdkErr    error
}

// NewProvider constructs a new Provider.
func NewProvider(opts Options) *Provider {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Provider{opts: opts, registry: prometheus.NewRegistry()}
}

// SetServerURL changes the API root. It has no effect once SDKClient was called.
func (p *Provider) SetServerURL(url string) {
	p.opts.ServerURL = url
}

// ServerURL returns the API root commands talk to.
func (p *Provider) ServerURL() string {
	return p.opts.ServerURL
}

// SetBearerToken injects an ephemeral credential (for CI and testing). The
// session it creates lives in memory only. It must be called before Identity.
func (p *Provider) SetBearerToken(token string) {
	p.bearerToken = token
}

// Registry holds the client request metrics recorded during this run.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// Identity returns the identity store, restoring any persisted session the
// first time it is called.
func (p *Provider) Identity() (*sdk.IdentityStore, error) {
	p.identityOnce.Do(func() {
		logger := p.opts.Logger.With("component", "identity")

		if p.bearerToken != "" {
			identity := sdk.NewIdentityStore(sdk.NewMemoryStore(), sdk.WithIdentityLogger(logger))
			if err := identity.Login(p.bearerToken); err != nil {
				p.identityErr = fmt.Errorf("ephemeral token rejected: %w", err)
				return
			}
			p.identity = identity
			return
		}

		store, err := auth.NewFileStore(p.opts.Home)
		if err != nil {
			p.identityErr = fmt.Errorf("failed to create credential store: %w", err)
			return
		}
		p.identity = sdk.NewIdentityStore(store, sdk.WithIdentityLogger(logger))
		p.identity.Restore()
	})
	return p.identity, p.identityErr
}

// SDKClient returns the API client bound to Identity.
func (p *Provider) SDKClient(ctx context.Context) (*sdk.Client, error) {
	p.sdkOnce.Do(func() {
		identity, err := p.Identity()
		if err != nil {
			p.sdkErr = err
			return
		}

		metrics, err := sdk.NewMetrics(p.registry)
		if err != nil {
			p.sdkErr = fmt.Errorf("failed to register client metrics: %w", err)
			return
		}

		p.sdkClient, p.sdkErr = sdk.NewClient(p.opts.ServerURL, identity,
			sdk.WithLogger(p.opts.Logger.With("component", "gateway")),
			sdk.WithNavigator(NewTerminalNavigator(p.opts.Out)),
			sdk.WithMetrics(metrics),
			sdk.WithTimeout(p.opts.Timeout),
			sdk.WithUserAgent("ticketctl"),
		)
	})

	if p.sdkErr != nil {
		return nil, p.sdkErr
	}
	return p.sdkClient, nil
}

// RequireRole fails with ErrAccessDenied unless the current session holds role.
// This only shapes the CLI; the API enforces roles on its own.
func (p *Provider) RequireRole(role string) error {
	identity, err := p.Identity()
	if err != nil {
		return err
	}
	if _, ok := identity.Session(); !ok {
		return fmt.Errorf("%w: not logged in; run `ticketctl auth login`", ErrAccessDenied)
	}
	if !identity.HasRole(role) {
		return fmt.Errorf("%w: %s role required", ErrAccessDenied, sdk.CanonicalRole(role))
	}
	return nil
}

// HasRole reports whether the current session holds role. Load errors count as no.
func (p *Provider) HasRole(role string) bool {
	identity, err := p.Identity()
	return err == nil && identity.HasRole(role)
}
