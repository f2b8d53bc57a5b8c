package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var callbackTimeout = 5 * time.Minute

// browserFlow opens an authorize page and waits for the provider to
// redirect back to a listener on the loopback redirect URI.
type browserFlow struct {
	redirectURI string
	openBrowser func(string) error
	timeout     time.Duration
	logger      *slog.Logger
}

type callbackResult struct {
	Code        string
	State       string
	RedirectURI string
}

// run listens on the redirect URI, opens authURL(redirectURI) and returns
// the code and state the provider sends back. Port 0 picks a free port and
// the chosen address is passed to authURL.
func (f *browserFlow) run(ctx context.Context, authURL func(redirectURI string) string) (*callbackResult, error) {
	if f.redirectURI == "" {
		return nil, errors.New("no redirect URI configured")
	}

	redirect, err := url.Parse(f.redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}

	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}

	if redirect.Port() == "0" {
		port := ln.Addr().(*net.TCPAddr).Port
		redirect.Host = net.JoinHostPort(redirect.Hostname(), strconv.Itoa(port))
	}

	resultChan := make(chan *callbackResult, 1)
	errChan := make(chan error, 1)

	path := redirect.Path
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		code := query.Get("code")
		if code == "" {
			errMsg := query.Get("error_description")
			if errMsg == "" {
				errMsg = query.Get("error")
			}

			if errMsg == "" {
				errMsg = "no authorization code received"
			}

			select {
			case errChan <- fmt.Errorf("OAuth error: %s", errMsg):
			default:
			}

			w.Header().Set("Content-Type", "text/html")
			_, _ = fmt.Fprintf(w, `<html><body><h1>Authorization Failed</h1><p>%s</p></body></html>`, errMsg)

			return
		}

		select {
		case resultChan <- &callbackResult{Code: code, State: query.Get("state"), RedirectURI: redirect.String()}:
		default:
		}

		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><body>
			<h1>Authorization Successful!</h1>
			<p>You can close this window and return to the terminal.</p>
			<script>window.close();</script>
		</body></html>`)
	})

	go func() {
		if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			select {
			case errChan <- fmt.Errorf("server error: %w", err):
			default:
			}
		}
	}()

	defer func() { //nolint:contextcheck // the request context may already be canceled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	target := authURL(redirect.String())
	f.logger.Debug("waiting for oauth callback", "redirect_uri", redirect.String())

	if f.openBrowser != nil {
		if err := f.openBrowser(target); err != nil {
			return nil, fmt.Errorf("failed to open browser: %w", err)
		}
	}

	timeout := f.timeout
	if timeout <= 0 {
		timeout = callbackTimeout
	}

	select {
	case result := <-resultChan:
		return result, nil
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, fmt.Errorf("OAuth flow timed out")
	}
}
