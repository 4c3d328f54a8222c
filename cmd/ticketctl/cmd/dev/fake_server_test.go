package dev

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtiro/tickets/internal/fakeapi"
	"github.com/devtiro/tickets/pkg/sdk"
)

func TestSeedDemoEvents(t *testing.T) {
	api := fakeapi.New()
	seedDemoEvents(api, time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local))
	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	client, err := sdk.NewClient(srv.URL+fakeapi.BasePath, nil)
	require.NoError(t, err)

	page, err := client.Events().ListPublished(context.Background(), sdk.ListPublishedEventsInput{})
	require.NoError(t, err)
	require.Len(t, page.Content, 2, "drafts are not published")
	assert.Equal(t, "Jazz Night", page.Content[0].Name)
	assert.Equal(t, time.Date(2026, 10, 28, 20, 0, 0, 0, time.Local), page.Content[0].Start.Time)

	require.NoError(t, client.Identity().Login(fakeapi.Token(demoOrganizer)))
	owned, err := client.Events().List(context.Background(), sdk.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, owned.Content, 3)
}

func TestDemoTokens(t *testing.T) {
	for _, claims := range []fakeapi.TokenClaims{demoOrganizer, demoStaff, demoAttendee} {
		principal, err := sdk.DecodeCredential(fakeapi.Token(claims))
		require.NoError(t, err)
		assert.Equal(t, claims.Subject, principal.SubjectID)
		assert.Equal(t, claims.Email, principal.Email)
	}

	var buf bytes.Buffer
	printBanner(&buf, "http://localhost:8085/api/v1")
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("ticketctl auth login --token ")))
}
