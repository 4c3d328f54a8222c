package client

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/auth"
	"github.com/devtiro/tickets/internal/fakeapi"
	"github.com/devtiro/tickets/pkg/sdk"
)

func newTestProvider(t *testing.T, out *bytes.Buffer) (*Provider, *fakeapi.Server, string) {
	t.Helper()
	api := fakeapi.New()
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	home := t.TempDir()
	p := NewProvider(Options{
		ServerURL: srv.URL + fakeapi.BasePath,
		Home:      home,
		Timeout:   5 * time.Second,
		Out:       out,
	})
	return p, api, home
}

func TestProvider_RestoresPersistedSession(t *testing.T) {
	p, _, home := newTestProvider(t, &bytes.Buffer{})

	store, err := auth.NewFileStore(home)
	require.NoError(t, err)
	require.NoError(t, store.Save(fakeapi.Token(fakeapi.TokenClaims{Subject: "u1", Roles: []string{"ORGANIZER"}})))

	identity, err := p.Identity()
	require.NoError(t, err)
	principal, ok := identity.CurrentPrincipal()
	require.True(t, ok)
	assert.Equal(t, "u1", principal.SubjectID)
	assert.True(t, p.HasRole(sdk.RoleOrganizer))
	assert.NoError(t, p.RequireRole(sdk.RoleOrganizer))
}

func TestProvider_RequireRole(t *testing.T) {
	p, _, _ := newTestProvider(t, &bytes.Buffer{})

	err := p.RequireRole(sdk.RoleStaff)
	assert.True(t, errors.Is(err, ErrAccessDenied))
	assert.Contains(t, err.Error(), "not logged in")

	identity, err := p.Identity()
	require.NoError(t, err)
	require.NoError(t, identity.Login(fakeapi.Token(fakeapi.TokenClaims{Subject: "u1", Roles: []string{"ORGANIZER"}})))

	err = p.RequireRole(sdk.RoleStaff)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Contains(t, err.Error(), "ROLE_STAFF")
}

func TestProvider_EphemeralTokenIsNotPersisted(t *testing.T) {
	p, api, home := newTestProvider(t, &bytes.Buffer{})
	token := fakeapi.Token(fakeapi.TokenClaims{Subject: "ci"})
	p.SetBearerToken(token)

	client, err := p.SDKClient(context.Background())
	require.NoError(t, err)
	_, err = client.Tickets().List(context.Background(), sdk.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, api.Requests()[0].Authorization)

	store, err := auth.NewFileStore(home)
	require.NoError(t, err)
	_, err = store.Load()
	assert.ErrorIs(t, err, sdk.ErrNoCredential)
}

func TestProvider_EphemeralTokenMalformed(t *testing.T) {
	p, _, _ := newTestProvider(t, &bytes.Buffer{})
	p.SetBearerToken("not-a-token")

	_, err := p.SDKClient(context.Background())
	assert.ErrorIs(t, err, sdk.ErrMalformedCredential)
}

func TestProvider_RejectedSessionPrintsLoginHint(t *testing.T) {
	var out bytes.Buffer
	p, api, home := newTestProvider(t, &out)

	token := fakeapi.Token(fakeapi.TokenClaims{Subject: "u1"})
	store, err := auth.NewFileStore(home)
	require.NoError(t, err)
	require.NoError(t, store.Save(token))
	api.Revoke(token)

	client, err := p.SDKClient(context.Background())
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = client.Tickets().List(context.Background(), sdk.PageRequest{})
		assert.ErrorIs(t, err, sdk.ErrAuthenticationExpired)
	}

	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("ticketctl auth login")))
	_, err = store.Load()
	assert.ErrorIs(t, err, sdk.ErrNoCredential)
}

func TestProvider_RecordsMetrics(t *testing.T) {
	p, _, _ := newTestProvider(t, &bytes.Buffer{})
	client, err := p.SDKClient(context.Background())
	require.NoError(t, err)
	_, err = client.Events().ListPublished(context.Background(), sdk.ListPublishedEventsInput{})
	require.NoError(t, err)

	families, err := p.Registry().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "ticketing_client_requests_total")
}
