package sdk

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"

func makeToken(t *testing.T, payload any) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return testHeader + "." + base64.RawURLEncoding.EncodeToString(data) + ".sig"
}

func TestDecodeCredential_SegmentCount(t *testing.T) {
	valid := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u1"}`))
	cases := []string{
		"",
		"a",
		"a.b",
		"a.b.c.d",
		testHeader + "." + valid,
		testHeader + "." + valid + ".sig.extra",
		"....",
	}
	for _, tc := range cases {
		t.Run(tc, func(t *testing.T) {
			_, err := DecodeCredential(tc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedCredential)
		})
	}
}

func TestDecodeCredential_BadPayload(t *testing.T) {
	cases := map[string]string{
		"not base64":       "h.!!!not-base64!!!.s",
		"empty payload":    "h..s",
		"not json":         "h." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".s",
		"json array":       "h." + base64.RawURLEncoding.EncodeToString([]byte(`["sub"]`)) + ".s",
		"json null":        "h." + base64.RawURLEncoding.EncodeToString([]byte(`null`)) + ".s",
		"json string":      "h." + base64.RawURLEncoding.EncodeToString([]byte(`"u1"`)) + ".s",
		"truncated object": "h." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":`)) + ".s",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCredential(token)
			assert.ErrorIs(t, err, ErrMalformedCredential)
		})
	}
}

func TestDecodeCredential_NonStringSubject(t *testing.T) {
	_, err := DecodeCredential(makeToken(t, map[string]any{"sub": 42}))
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestDecodeCredential_MisshapenRealmAccessGrantsNoRoles(t *testing.T) {
	tests := []struct {
		name   string
		access any
	}{
		{name: "roles not a list", access: map[string]any{"roles": "ORGANIZER"}},
		{name: "roles not strings", access: map[string]any{"roles": []any{1, 2}}},
		{name: "realm_access not an object", access: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeCredential(makeToken(t, map[string]any{
				"sub":          "u1",
				"realm_access": tt.access,
			}))
			require.NoError(t, err)
			assert.Equal(t, "u1", p.SubjectID)
			assert.Empty(t, p.Roles.Slice())
			assert.False(t, p.HasRole("ORGANIZER"))
		})
	}
}

func TestDecodeCredential_RejectsWhitespace(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "u1"})
	for _, bad := range []string{token + "\n", token + "\r\n", " " + token, token[:5] + " " + token[5:]} {
		_, err := DecodeCredential(bad)
		assert.ErrorIs(t, err, ErrMalformedCredential, "%q", bad)
	}
}

func TestDecodeCredential_OrganizerToken(t *testing.T) {
	token := makeToken(t, map[string]any{
		"sub":          "u1",
		"name":         "Ann",
		"email":        "a@x.com",
		"realm_access": map[string]any{"roles": []string{"ORGANIZER"}},
	})

	p, err := DecodeCredential(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.SubjectID)
	assert.Equal(t, "Ann", p.DisplayName)
	assert.Equal(t, "a@x.com", p.Email)
	assert.True(t, p.HasRole("ORGANIZER"))
	assert.True(t, p.HasRole("ROLE_ORGANIZER"))
	assert.False(t, p.HasRole("STAFF"))
	assert.Equal(t, []string{"ROLE_ORGANIZER"}, p.Roles.Slice())
}

func TestDecodeCredential_Defaults(t *testing.T) {
	p, err := DecodeCredential(makeToken(t, map[string]any{"sub": "u2"}))
	require.NoError(t, err)
	assert.Equal(t, "u2", p.SubjectID)
	assert.Equal(t, "User", p.DisplayName)
	assert.Equal(t, "user@example.com", p.Email)
	assert.Empty(t, p.Roles)
	for _, role := range []string{"ORGANIZER", "STAFF", "USER", "", "ROLE_"} {
		assert.False(t, p.HasRole(role), role)
	}
}

func TestDecodeCredential_MissingSubjectTolerated(t *testing.T) {
	p, err := DecodeCredential(makeToken(t, map[string]any{"name": "Anon"}))
	require.NoError(t, err)
	assert.Empty(t, p.SubjectID)
	assert.Equal(t, "Anon", p.DisplayName)
}

func TestDecodeCredential_PrefixedRolesFromRealm(t *testing.T) {
	// Tokens issued by the realm sometimes already carry the prefix.
	p, err := DecodeCredential(makeToken(t, map[string]any{
		"sub":          "u3",
		"realm_access": map[string]any{"roles": []string{"ROLE_STAFF", "USER"}},
	}))
	require.NoError(t, err)
	assert.True(t, p.HasRole("STAFF"))
	assert.True(t, p.HasRole("ROLE_USER"))
	assert.False(t, p.HasRole("ORGANIZER"))
}

func TestDecodeCredential_StandardBase64Alphabet(t *testing.T) {
	// '?' in the JSON forces '/' in standard base64, which base64url rejects.
	payload := []byte(`{"sub":"u4","name":"???"}`)
	std := base64.StdEncoding.EncodeToString(payload)
	require.Contains(t, std, "/")

	p, err := DecodeCredential("h." + std + ".s")
	require.NoError(t, err)
	assert.Equal(t, "u4", p.SubjectID)
	assert.Equal(t, "???", p.DisplayName)

	p, err = DecodeCredential("h." + base64.URLEncoding.EncodeToString(payload) + ".s")
	require.NoError(t, err)
	assert.Equal(t, "u4", p.SubjectID)
}

func TestDecodeCredential_ErrorDetail(t *testing.T) {
	_, err := DecodeCredential("a.b")
	var detail *MalformedCredentialError
	require.True(t, errors.As(err, &detail))
	assert.Contains(t, detail.Reason, "got 2")
}

func TestCanonicalRole(t *testing.T) {
	assert.Equal(t, "ROLE_STAFF", CanonicalRole("STAFF"))
	assert.Equal(t, "ROLE_STAFF", CanonicalRole("ROLE_STAFF"))
	assert.Equal(t, "ROLE_", CanonicalRole(""))
}

func TestRoleSetMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewRoleSet("STAFF", "ORGANIZER", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `["ROLE_ORGANIZER","ROLE_STAFF"]`, string(data))
}
