package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_DefaultValues(t *testing.T) {
	s, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8085/api/v1", s.BaseURL)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, 10*time.Second, s.Timeout)
	assert.False(t, s.NonInteractive)
	assert.Empty(t, s.Home)
	assert.Empty(t, s.Token)
	assert.Empty(t, s.OIDC.Issuer)
}

func TestLoadFrom_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Settings)
	}{
		{
			name:    "base url",
			envVars: map[string]string{"TICKETS_API_BASE_URL": "https://tickets.example.com/api/v1"},
			expected: func(s *Settings) {
				assert.Equal(t, "https://tickets.example.com/api/v1", s.BaseURL)
			},
		},
		{
			name: "cli behaviour",
			envVars: map[string]string{
				"TICKETCTL_HOME":            "/tmp/tc",
				"TICKETCTL_NON_INTERACTIVE": "1",
				"TICKETCTL_TIMEOUT":         "3s",
				"TICKETCTL_LOG_LEVEL":       "debug",
			},
			expected: func(s *Settings) {
				assert.Equal(t, "/tmp/tc", s.Home)
				assert.True(t, s.NonInteractive)
				assert.Equal(t, 3*time.Second, s.Timeout)
				assert.Equal(t, "debug", s.LogLevel)
			},
		},
		{
			name: "oidc",
			envVars: map[string]string{
				"TICKETCTL_OIDC_ISSUER":        "https://idp.example.com/realms/tickets",
				"TICKETCTL_OIDC_CLIENT_ID":     "ticketctl",
				"TICKETCTL_OIDC_CLIENT_SECRET": "s3cret",
			},
			expected: func(s *Settings) {
				assert.Equal(t, "https://idp.example.com/realms/tickets", s.OIDC.Issuer)
				assert.Equal(t, "ticketctl", s.OIDC.ClientID)
				assert.Equal(t, "s3cret", s.OIDC.ClientSecret)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadFrom(tt.envVars)
			require.NoError(t, err)
			tt.expected(s)
		})
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	_, err := LoadFrom(map[string]string{"TICKETCTL_TIMEOUT": "soon"})
	assert.Error(t, err)

	_, err = LoadFrom(map[string]string{"TICKETCTL_TIMEOUT": "0s"})
	assert.Error(t, err)

	_, err = LoadFrom(map[string]string{"TICKETCTL_NON_INTERACTIVE": "maybe"})
	assert.Error(t, err)
}

func TestInjectConfig(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { MustFromContext(context.Background()) })

	cfg := &GlobalConfig{ServerURL: "http://x"}
	ctx := InjectConfig(context.Background(), cfg)
	assert.Same(t, cfg, MustFromContext(ctx))
}
