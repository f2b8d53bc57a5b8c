package store

import (
	"errors"
	"fmt"

	"github.com/inovacc/jbconsole/internal/params"
)

// Well-known keys.
const (
	KeyAuthMethod  = "@Auth.method"
	KeyGitHubToken = "github_access_token"
	KeyGitHubState = "oauth_state_github"
	KeyMSToken     = "ms_token"
	KeyMSVerifier  = "ms_pkce_verifier"
	KeyGoogleToken = "google_token"
	KeyGoogleState = "oauth_state_google"
)

// Backend names accepted by Open.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

var (
	// ErrNotFound is returned by Get when the key is absent
	ErrNotFound = errors.New("key not found")

	// ErrUnknownBackend is returned by Open for an unsupported backend name
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Store is a string key/value store. Writes are last-write-wins.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// Open opens the store for the given backend at its default location.
func Open(backend string) (Store, error) {
	if backend == "" {
		backend = BackendBolt
	}

	path, err := params.StorePath(backend)
	if err != nil {
		return nil, err
	}

	return OpenPath(backend, path)
}

// OpenPath opens the store for the given backend at an explicit path.
func OpenPath(backend, path string) (Store, error) {
	switch backend {
	case BackendBolt, "":
		return NewBolt(path)
	case BackendSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// GetOptional returns the value for key, or "" when it is absent.
func GetOptional(s Store, key string) (string, error) {
	v, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}

	return v, err
}
