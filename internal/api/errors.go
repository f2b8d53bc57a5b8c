package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// RequestError is returned for every non-2xx response.
type RequestError struct {
	Status  int
	OK      bool // always false
	Message string

	// Body is the parsed JSON error body, or the raw text when it is not JSON
	Body any
}

func newRequestError(status int, raw []byte) *RequestError {
	e := &RequestError{Status: status}

	if len(raw) == 0 {
		return e
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		e.Body = string(raw)

		return e
	}

	e.Body = parsed

	if obj, ok := parsed.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok {
			e.Message = msg
		}
	}

	return e
}

func (e *RequestError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	case e.Detail() != "":
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Detail())
	default:
		return fmt.Sprintf("request failed (%d): %s", e.Status, http.StatusText(e.Status))
	}
}

// Detail returns the server-provided "detail" text, if any.
func (e *RequestError) Detail() string {
	obj, ok := e.Body.(map[string]any)
	if !ok {
		if s, ok := e.Body.(string); ok {
			return s
		}

		return ""
	}

	switch d := obj["detail"].(type) {
	case nil:
		return ""
	case string:
		return d
	default:
		// validation errors arrive as a list of objects
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Sprint(d)
		}

		return string(data)
	}
}

// IsUnauthorized reports whether err is a 401 RequestError.
func IsUnauthorized(err error) bool {
	var reqErr *RequestError

	return errors.As(err, &reqErr) && reqErr.Status == http.StatusUnauthorized
}

// DetailOf returns the server detail carried by err, or "" when err is not
// a RequestError or carries none.
func DetailOf(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Detail()
	}

	return ""
}
