package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/client"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/internal/logger"
)

type contextKey string

const configKey contextKey = "ticketctl-config"

// Settings are read from the environment. Command-line flags override them.
type Settings struct {
	BaseURL        string        `env:"TICKETS_API_BASE_URL" envDefault:"http://localhost:8085/api/v1"`
	Home           string        `env:"TICKETCTL_HOME"`
	LogLevel       string        `env:"TICKETCTL_LOG_LEVEL" envDefault:"warn"`
	NonInteractive bool          `env:"TICKETCTL_NON_INTERACTIVE" envDefault:"false"`
	Timeout        time.Duration `env:"TICKETCTL_TIMEOUT" envDefault:"10s"`
	// Token is an ephemeral credential that is never written to disk.
	Token string `env:"TICKETCTL_TOKEN"`
	OIDC  OIDC   `envPrefix:"TICKETCTL_OIDC_"`
}

// OIDC contains identity provider parameters for `auth login`.
type OIDC struct {
	Issuer       string `env:"ISSUER"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	TokenURL     string `env:"TOKEN_URL"`
}

// Load parses Settings from the process environment.
func Load() (*Settings, error) {
	return parse(env.Options{})
}

// LoadFrom parses Settings from environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Settings, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Settings, error) {
	s := Settings{}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if s.Timeout <= 0 {
		return nil, fmt.Errorf("failed to parse config: TICKETCTL_TIMEOUT must be positive, got %s", s.Timeout)
	}
	return &s, nil
}

// GlobalConfig holds shared configuration for all ticketctl commands.
// It is injected into the cobra command context before the command tree
// runs; the root PersistentPreRunE applies flag overrides.
type GlobalConfig struct {
	Settings
	ServerURL      string
	Output         output.Format
	Debug          bool
	Logger         *logger.Logger
	ClientProvider *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// Only use it in RunE functions of commands below the root.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("ticketctl: config not found in context - this is a bug in ticketctl")
	}
	return cfg
}
