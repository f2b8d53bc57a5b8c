package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a request when the caller supplies no client.
const DefaultTimeout = 30 * time.Second

// Request describes a single call to the backend.
type Request struct {
	URL    string
	Method string // defaults to GET

	// AccessToken is sent as "Authorization: Bearer <token>" when set
	AccessToken string

	// LoginMethod is sent in the loginMethod header when set
	LoginMethod string

	// Body is attached to non-GET requests only, and only when non-empty.
	// []byte and string are sent as-is, *Form as multipart, anything else
	// as JSON.
	Body any

	Headers map[string]string

	// OnUnauthorized is invoked once when the server answers 401
	OnUnauthorized func()
}

// Do issues req and decodes a 2xx JSON response into out (which may be nil).
// Non-2xx responses are returned as *RequestError. Nothing is retried.
func Do(ctx context.Context, client *http.Client, req Request, out any) error {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(method, req.Body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if req.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	}

	if req.LoginMethod != "" {
		httpReq.Header.Set(LoginMethodHeader, req.LoginMethod)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL, err)
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if req.OnUnauthorized != nil {
			req.OnUnauthorized()
		}

		return &RequestError{Status: resp.StatusCode, Message: "Unauthorized"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// encodeBody returns nil for GET requests and for empty bodies.
func encodeBody(method string, body any) (io.Reader, string, error) {
	if method == http.MethodGet || body == nil {
		return nil, "", nil
	}

	switch b := body.(type) {
	case []byte:
		if len(b) == 0 {
			return nil, "", nil
		}

		return bytes.NewReader(b), "", nil
	case string:
		if b == "" {
			return nil, "", nil
		}

		return strings.NewReader(b), "", nil
	case *Form:
		if b == nil || b.Empty() {
			return nil, "", nil
		}

		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode body: %w", err)
		}

		switch string(data) {
		case "null", "{}":
			return nil, "", nil
		}

		return bytes.NewReader(data), "application/json", nil
	}
}
