package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inovacc/jbconsole/internal/model"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a signed-in user
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnknownMethod is returned for a provider key outside MS, GOOGLE and GITHUB
	ErrUnknownMethod = errors.New("unknown auth method")

	// ErrStateMismatch is returned when the redirect carries a state we did not issue
	ErrStateMismatch = errors.New("oauth state mismatch")

	// ErrNoAccessToken is returned when the backend exchange yields no token
	ErrNoAccessToken = errors.New("no access token issued")
)

// ProviderError wraps a failure inside one identity provider.
type ProviderError struct {
	Method model.AuthMethodKey
	Op     string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", strings.ToLower(string(e.Method)), e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(method model.AuthMethodKey, op string, err error) error {
	if err == nil {
		return nil
	}

	return &ProviderError{Method: method, Op: op, Err: err}
}
