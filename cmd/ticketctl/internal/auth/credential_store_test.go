package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtiro/tickets/pkg/sdk"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "credentials"), store.Path())

	_, err = store.Load()
	assert.ErrorIs(t, err, sdk.ErrNoCredential)

	credential := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1MSJ9.c2ln"
	require.NoError(t, store.Save(credential))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, credential, got)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, credential, string(raw), "stored bytes must equal the credential")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("a.b.c"))
	require.NoError(t, store.Save("d.e.f"))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "d.e.f", got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "credentials", entries[0].Name())
}

func TestFileStore_LoadTrimsTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte("a.b.c\n"), 0600))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", got)

	require.NoError(t, os.WriteFile(store.Path(), []byte("\n"), 0600))
	_, err = store.Load()
	assert.ErrorIs(t, err, sdk.ErrNoCredential)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Save("a.b.c"))
	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete())

	_, err = store.Load()
	assert.ErrorIs(t, err, sdk.ErrNoCredential)
}

// {"sub":"u1","name":"Ann","realm_access":{"roles":["ORGANIZER"]}}
const annToken = "eyJhbGciOiJIUzI1NiJ9." +
	"eyJzdWIiOiJ1MSIsIm5hbWUiOiJBbm4iLCJyZWFsbV9hY2Nlc3MiOnsicm9sZXMiOlsiT1JHQU5JWkVSIl19fQ" +
	".c2ln"

func TestFileStore_BacksIdentityStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	token := annToken
	require.NoError(t, sdk.NewIdentityStore(store).Login(token))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	identity := sdk.NewIdentityStore(reopened)
	identity.Restore()

	principal, ok := identity.CurrentPrincipal()
	require.True(t, ok)
	assert.Equal(t, "u1", principal.SubjectID)
	assert.True(t, identity.HasRole(sdk.RoleOrganizer))
}

func TestFileStore_LoginRestoreIsByteExact(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	identity := sdk.NewIdentityStore(store)

	err = identity.Login(annToken + "\n")
	assert.ErrorIs(t, err, sdk.ErrMalformedCredential)
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "a rejected credential must not be persisted")

	require.NoError(t, identity.Login(annToken))
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, annToken, string(raw))

	restored := sdk.NewIdentityStore(store)
	restored.Restore()
	credential, ok := restored.CurrentCredential()
	require.True(t, ok)
	assert.Equal(t, annToken, credential)
}
