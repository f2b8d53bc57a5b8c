// Package api talks to the JB Manager bot-management HTTP API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// LoginMethodHeader names the header carrying the lower-cased provider key.
const LoginMethodHeader = "loginMethod"

// TokenSource yields the bearer token for the current session. An empty
// token means the call is sent unauthenticated.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// Client binds the server host, the session token and the 401 handler.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	loginMethod    func() string
	onUnauthorized func()
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTokenSource attaches the session's token to every call.
func WithTokenSource(ts TokenSource) Option {
	return func(cl *Client) { cl.tokens = ts }
}

// WithLoginMethod supplies the loginMethod header value.
func WithLoginMethod(fn func() string) Option {
	return func(cl *Client) { cl.loginMethod = fn }
}

// WithUnauthorizedHandler is called once for every 401 response.
func WithUnauthorizedHandler(fn func()) Option {
	return func(cl *Client) { cl.onUnauthorized = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// With returns a copy of c with opts applied.
func (c *Client) With(opts ...Option) *Client {
	clone := *c
	for _, opt := range opts {
		opt(&clone)
	}

	return &clone
}

// BaseURL returns the server host the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CallOption adjusts a single call.
type CallOption func(*callConfig)

type callConfig struct {
	token         *string
	withLoginHint bool
	query         url.Values
}

// WithAccessToken overrides the session token; an empty token sends the
// call unauthenticated.
func WithAccessToken(token string) CallOption {
	return func(c *callConfig) { c.token = &token }
}

// WithLoginMethodHeader sends the loginMethod header on this call.
func WithLoginMethodHeader() CallOption {
	return func(c *callConfig) { c.withLoginHint = true }
}

// WithQuery appends query parameters.
func WithQuery(q url.Values) CallOption {
	return func(c *callConfig) { c.query = q }
}

// Call sends method+path with body and decodes the response into out.
func (c *Client) Call(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	var cfg callConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	req := Request{
		URL:            c.baseURL + path,
		Method:         method,
		Body:           body,
		OnUnauthorized: c.onUnauthorized,
	}

	if len(cfg.query) > 0 {
		req.URL += "?" + cfg.query.Encode()
	}

	switch {
	case cfg.token != nil:
		req.AccessToken = *cfg.token
	case c.tokens != nil:
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return err
		}

		req.AccessToken = token
	}

	if cfg.withLoginHint && c.loginMethod != nil {
		req.LoginMethod = c.loginMethod()
	}

	c.logger.Debug("api request", "method", method, "path", path, "authenticated", req.AccessToken != "")

	err := Do(ctx, c.httpClient, req, out)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "error", err)
	}

	return err
}

// Post is Call with POST and no decoded response.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...CallOption) error {
	return c.Call(ctx, http.MethodPost, path, body, nil, opts...)
}
