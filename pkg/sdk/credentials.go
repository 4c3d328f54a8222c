package sdk

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"
)

// RolePrefix is prepended to bare role names before membership tests.
const RolePrefix = "ROLE_"

// Well-known roles issued by the ticketing realm.
const (
	RoleOrganizer = "ORGANIZER"
	RoleStaff     = "STAFF"
	RoleUser      = "USER"
)

const (
	defaultDisplayName = "User"
	defaultEmail       = "user@example.com"
)

// CanonicalRole returns the prefixed form of role. Names that already carry
// the prefix are returned unchanged.
func CanonicalRole(role string) string {
	if strings.HasPrefix(role, RolePrefix) {
		return role
	}
	return RolePrefix + role
}

// RoleSet is a set of canonical role names.
type RoleSet map[string]struct{}

// NewRoleSet canonicalizes roles into a set.
func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		set[CanonicalRole(r)] = struct{}{}
	}
	return set
}

// Has reports whether the canonical form of role is in the set.
func (s RoleSet) Has(role string) bool {
	if role == "" {
		return false
	}
	_, ok := s[CanonicalRole(role)]
	return ok
}

// Slice returns the roles sorted.
func (s RoleSet) Slice() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s RoleSet) MarshalYAML() (interface{}, error) {
	return s.Slice(), nil
}

// Principal is the identity view derived from a credential. It is recomputed
// from the credential, never patched.
type Principal struct {
	SubjectID   string  `json:"subject_id" yaml:"subject_id"`
	DisplayName string  `json:"name" yaml:"name"`
	Email       string  `json:"email" yaml:"email"`
	Roles       RoleSet `json:"roles" yaml:"roles"`
}

// HasRole reports whether the principal carries role.
func (p Principal) HasRole(role string) bool {
	return p.Roles.Has(role)
}

type realmAccess struct {
	Roles []string `mapstructure:"roles"`
}

// DecodeCredential derives a Principal from the payload segment of a bearer
// token. The signature is NOT verified: the result drives display and
// feature gating only, and the API re-checks the token on every call.
//
// Credentials containing whitespace are rejected so that what a
// CredentialStore persists round-trips byte for byte.
func DecodeCredential(credential string) (Principal, error) {
	if strings.IndexFunc(credential, unicode.IsSpace) >= 0 {
		return Principal{}, &MalformedCredentialError{Reason: "contains whitespace"}
	}
	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return Principal{}, &MalformedCredentialError{
			Reason: fmt.Sprintf("expected 3 segments, got %d", len(parts)),
		}
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return Principal{}, &MalformedCredentialError{Reason: "payload is not base64", Err: err}
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Principal{}, &MalformedCredentialError{Reason: "payload is not a JSON object", Err: err}
	}
	if claims == nil {
		return Principal{}, &MalformedCredentialError{Reason: "payload is empty"}
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return Principal{}, &MalformedCredentialError{Reason: "sub claim", Err: err}
	}

	// realm_access of the wrong shape grants no roles.
	var access realmAccess
	if err := mapstructure.Decode(claims["realm_access"], &access); err != nil {
		access.Roles = nil
	}

	return Principal{
		SubjectID:   subject,
		DisplayName: stringClaim(claims, "name", defaultDisplayName),
		Email:       stringClaim(claims, "email", defaultEmail),
		Roles:       NewRoleSet(access.Roles...),
	}, nil
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// decodeSegment accepts the JWT base64url alphabet as well as standard
// base64, padded or not.
func decodeSegment(seg string) ([]byte, error) {
	data, err := segmentParser.DecodeSegment(seg)
	if err == nil {
		return data, nil
	}
	if data, stdErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "=")); stdErr == nil {
		return data, nil
	}
	return nil, err
}

func stringClaim(claims jwt.MapClaims, field, fallback string) string {
	value, ok := claims[field].(string)
	if !ok || value == "" {
		return fallback
	}
	return value
}
