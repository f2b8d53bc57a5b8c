package form

import (
	"errors"
	"fmt"

	"github.com/inovacc/jbconsole/internal/api"
)

var (
	// ErrUnknownModelType is returned for a model type tag outside the known set
	ErrUnknownModelType = errors.New("unknown model type")

	// ErrSecretUnavailable is returned when the install secret cannot be fetched
	ErrSecretUnavailable = errors.New("failed to fetch the access token")

	// ErrUnknownField is returned when setting a field the schema does not have
	ErrUnknownField = errors.New("unknown field")

	// ErrNotOpen is returned when submitting a closed form
	ErrNotOpen = errors.New("form is not open")
)

// MissingFieldError names the first required field left blank.
type MissingFieldError struct {
	Field string
	Label string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Label)
}

// Alert returns the message shown to the user for err.
func Alert(err error) string {
	var missing *MissingFieldError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &missing):
		return missing.Error()
	case errors.Is(err, ErrSecretUnavailable):
		return "Failed to fetch the access token"
	}

	detail := api.DetailOf(err)
	if detail == "" {
		detail = err.Error()
	}

	return fmt.Sprintf("Error from server \"%s\". Please try again.", detail)
}
