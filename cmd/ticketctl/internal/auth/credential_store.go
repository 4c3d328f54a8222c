package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/devtiro/tickets/pkg/sdk"
)

const (
	credentialsFile = "credentials"
	defaultDirName  = ".ticketctl"
)

// FileStore implements sdk.CredentialStore with a single file holding the
// raw credential. This is the CLI's credential persistence implementation.
type FileStore struct {
	path string
}

// Ensure FileStore implements sdk.CredentialStore at compile time.
var _ sdk.CredentialStore = (*FileStore)(nil)

// DefaultDir returns ~/.ticketctl.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// NewFileStore creates a FileStore under dir, or DefaultDir when dir is empty.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return &FileStore{path: filepath.Join(dir, credentialsFile)}, nil
}

// Path is the credential file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored credential. A trailing newline, as left by
// editors, is dropped.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", sdk.ErrNoCredential
		}
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}
	credential := strings.TrimRight(string(data), "\r\n")
	if credential == "" {
		return "", sdk.ErrNoCredential
	}
	return credential, nil
}

// Save writes credential atomically with owner-only permissions.
func (s *FileStore) Save(credential string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+credentialsFile+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp credentials file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to restrict temp credentials file: %w", err)
	}
	if _, err := tmp.WriteString(credential); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp credentials file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}

// Delete removes the credentials file.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete credentials file: %w", err)
	}
	return nil
}
