// Package auth implements the three identity providers and the session
// that tracks which one the user signed in with.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/inovacc/jbconsole/internal/config"
	"github.com/inovacc/jbconsole/internal/model"
	"github.com/inovacc/jbconsole/internal/store"
)

// Provider is one identity provider.
type Provider interface {
	Type() model.AuthMethodKey

	// LogIn completes a sign-in. An empty code starts the browser flow; a
	// non-empty code is an authorization code pasted by the user.
	LogIn(ctx context.Context, code string) error
	LogOut(ctx context.Context) error
	IsAuthenticated(ctx context.Context) (bool, error)

	// GetToken returns "" when there is no session.
	GetToken(ctx context.Context) (string, error)
	GetUser(ctx context.Context) (*model.User, error)
}

// Backend is the part of the JB Manager API the providers call.
type Backend interface {
	RegisterAdminUser(ctx context.Context, token string, method model.AuthMethodKey, user model.User) (*model.User, error)
	ExchangeGitHubCode(ctx context.Context, code string) (string, error)
}

// Deps carries everything a provider may need.
type Deps struct {
	Config      *config.Config
	Vault       *store.Vault
	Backend     Backend
	OpenBrowser func(string) error
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return d.Logger
}

func (d Deps) flow() *browserFlow {
	var redirectURI string
	if d.Config != nil {
		redirectURI = d.Config.RedirectURI
	}

	return &browserFlow{
		redirectURI: redirectURI,
		openBrowser: d.OpenBrowser,
		timeout:     callbackTimeout,
		logger:      d.logger(),
	}
}

// Constructor builds a provider from its dependencies.
type Constructor func(Deps) Provider

// Registry constructs providers on first use and reuses them afterwards.
type Registry struct {
	deps Deps

	mu           sync.Mutex
	providers    map[model.AuthMethodKey]Provider
	constructors map[model.AuthMethodKey]Constructor
}

// NewRegistry returns a registry with the MS, Google and GitHub providers.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:      deps,
		providers: make(map[model.AuthMethodKey]Provider),
		constructors: map[model.AuthMethodKey]Constructor{
			model.AuthMethodMS:     func(d Deps) Provider { return NewMSProvider(d) },
			model.AuthMethodGoogle: func(d Deps) Provider { return NewGoogleProvider(d) },
			model.AuthMethodGitHub: func(d Deps) Provider { return NewGitHubProvider(d) },
		},
	}
}

// Register replaces the constructor for key.
func (r *Registry) Register(key model.AuthMethodKey, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.constructors[key] = c
	delete(r.providers, key)
}

// Get returns the provider for key, constructing it on first use.
func (r *Registry) Get(key model.AuthMethodKey) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.providers[key]; ok {
		return p, nil
	}

	build, ok := r.constructors[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, key)
	}

	p := build(r.deps)
	r.providers[key] = p

	r.deps.logger().Debug("auth provider constructed", "method", key)

	return p, nil
}

// Constructed reports whether the provider for key has been built.
func (r *Registry) Constructed(key model.AuthMethodKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.providers[key]

	return ok
}
