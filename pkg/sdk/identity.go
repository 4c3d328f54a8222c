package sdk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Session pairs the current credential with the principal decoded from it.
type Session struct {
	Credential string
	Principal  Principal
}

// SessionListener observes session transitions. active is false after logout.
type SessionListener func(session Session, active bool)

// IdentityStore is the single owner of "who is the current user and what can
// they do". It is backed by exactly one persisted credential.
//
// Nothing here is a trust boundary: credentials are decoded without signature
// verification and role checks only steer what the client offers. The API
// authorizes every request on its own.
type IdentityStore struct {
	store  CredentialStore
	logger *slog.Logger

	// mu serializes transitions; readers go through current without locking.
	mu        sync.Mutex
	current   atomic.Pointer[Session]
	listeners []SessionListener
}

// IdentityOption configures an IdentityStore.
type IdentityOption func(*IdentityStore)

// WithIdentityLogger sets the logger used for restore diagnostics.
func WithIdentityLogger(logger *slog.Logger) IdentityOption {
	return func(s *IdentityStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewIdentityStore creates an IdentityStore backed by store. The session
// starts absent; call Restore to pick up a persisted credential.
func NewIdentityStore(store CredentialStore, opts ...IdentityOption) *IdentityStore {
	s := &IdentityStore{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore installs the persisted credential as the session if it decodes.
// A credential that does not decode is deleted. Restore runs unattended at
// startup, so it reports nothing and degrades to logged out.
func (s *IdentityStore) Restore() {
	credential, err := s.store.Load()
	if err != nil {
		if !errors.Is(err, ErrNoCredential) {
			s.logger.Warn("failed to read stored credential", "error", err)
		}
		return
	}

	principal, err := DecodeCredential(credential)
	if err != nil {
		s.logger.Warn("discarding stored credential", "error", err)
		s.mu.Lock()
		if delErr := s.store.Delete(); delErr != nil {
			s.logger.Warn("failed to delete stored credential", "error", delErr)
		}
		s.mu.Unlock()
		return
	}

	s.swap(&Session{Credential: credential, Principal: principal})
	s.logger.Debug("session restored", "subject", principal.SubjectID)
}

// Login decodes credential, persists it and makes it the current session.
// On any failure the previous session and the stored credential are left as
// they were.
func (s *IdentityStore) Login(credential string) error {
	principal, err := DecodeCredential(credential)
	if err != nil {
		return err
	}

	next := &Session{Credential: credential, Principal: principal}

	s.mu.Lock()
	if err := s.store.Save(credential); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	s.current.Store(next)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, *next, true)
	return nil
}

// Logout clears the session and removes the stored credential. It is safe to
// call with no active session. The in-memory session is cleared even when the
// store fails to delete.
func (s *IdentityStore) Logout() error {
	s.mu.Lock()
	prev := s.current.Swap(nil)
	err := s.store.Delete()
	listeners := s.listeners
	s.mu.Unlock()

	if prev != nil {
		notify(listeners, Session{}, false)
	}
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// HasRole reports whether the current principal carries role. Bare names
// ("ORGANIZER") and prefixed names ("ROLE_ORGANIZER") are equivalent.
func (s *IdentityStore) HasRole(role string) bool {
	sess := s.current.Load()
	if sess == nil {
		return false
	}
	return sess.Principal.HasRole(role)
}

// HasAnyRole reports whether the current principal carries at least one of roles.
func (s *IdentityStore) HasAnyRole(roles ...string) bool {
	sess := s.current.Load()
	if sess == nil {
		return false
	}
	for _, r := range roles {
		if sess.Principal.HasRole(r) {
			return true
		}
	}
	return false
}

// CurrentPrincipal returns the current principal, if any.
func (s *IdentityStore) CurrentPrincipal() (Principal, bool) {
	sess := s.current.Load()
	if sess == nil {
		return Principal{}, false
	}
	return sess.Principal, true
}

// CurrentCredential returns the current raw credential, if any.
func (s *IdentityStore) CurrentCredential() (string, bool) {
	sess := s.current.Load()
	if sess == nil {
		return "", false
	}
	return sess.Credential, true
}

// Session returns a snapshot of the current session.
func (s *IdentityStore) Session() (Session, bool) {
	sess := s.current.Load()
	if sess == nil {
		return Session{}, false
	}
	return *sess, true
}

// Subscribe registers fn to be called after every login and every logout
// that ended an active session.
func (s *IdentityStore) Subscribe(fn SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners[:len(s.listeners):len(s.listeners)], fn)
}

func (s *IdentityStore) swap(next *Session) {
	s.mu.Lock()
	s.current.Store(next)
	listeners := s.listeners
	s.mu.Unlock()
	notify(listeners, *next, true)
}

func notify(listeners []SessionListener, session Session, active bool) {
	for _, fn := range listeners {
		fn(session, active)
	}
}
