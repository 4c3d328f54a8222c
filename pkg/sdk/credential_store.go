package sdk

import "sync"

// CredentialStore persists the raw bearer credential between runs.
// Only IdentityStore writes to it.
type CredentialStore interface {
	// Load returns the stored credential or ErrNoCredential.
	Load() (string, error)
	// Save replaces the stored credential with credential, byte for byte.
	Save(credential string) error
	// Delete removes the stored credential. Deleting an empty store is not an error.
	Delete() error
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu         sync.Mutex
	credential string
	present    bool
}

var _ CredentialStore = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore, optionally seeded with a credential.
func NewMemoryStore(seed ...string) *MemoryStore {
	s := &MemoryStore{}
	if len(seed) > 0 {
		s.credential = seed[0]
		s.present = true
	}
	return s
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return "", ErrNoCredential
	}
	return s.credential, nil
}

func (s *MemoryStore) Save(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.present = true
	return nil
}

func (s *MemoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.present = false
	return nil
}
