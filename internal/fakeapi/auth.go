package fakeapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/devtiro/tickets/pkg/sdk"
)

type principalKey struct{}

func principalFrom(ctx context.Context) sdk.Principal {
	p, _ := ctx.Value(principalKey{}).(sdk.Principal)
	return p
}

// authenticate resolves the bearer token of r. present is false when the
// request carries no Authorization header.
func (s *Server) authenticate(r *http.Request) (principal sdk.Principal, present bool, ok bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return sdk.Principal{}, false, false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return sdk.Principal{}, true, false
	}

	s.mu.Lock()
	revoked := s.revoked[token]
	s.mu.Unlock()
	if revoked {
		return sdk.Principal{}, true, false
	}

	principal, err := sdk.DecodeCredential(token)
	if err != nil || principal.SubjectID == "" {
		return sdk.Principal{}, true, false
	}
	return principal, true, true
}

// optionalAuth lets anonymous requests through but rejects a bad token, as
// a resource server does on public routes.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, present, ok := s.authenticate(r)
		if present && !ok {
			unauthorized(w)
			return
		}
		if ok {
			r = r.WithContext(context.WithValue(r.Context(), principalKey{}, principal))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _, ok := s.authenticate(r)
		if !ok {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, principal)))
	})
}

func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !principalFrom(r.Context()).HasRole(role) {
				writeError(w, http.StatusForbidden, "Access denied: "+sdk.CanonicalRole(role)+" required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	writeError(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
}
