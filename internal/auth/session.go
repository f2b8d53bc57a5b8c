package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/inovacc/jbconsole/internal/model"
	"github.com/inovacc/jbconsole/internal/store"
)

// Session is the auth context: which provider the user signed in with,
// whether that session is live, and the registered user. It is created
// once per process and handed to whatever needs it.
type Session struct {
	store    store.Store
	registry *Registry
	logger   *slog.Logger

	mu            sync.Mutex
	method        model.AuthMethodKey
	provider      Provider
	user          *model.User
	authenticated bool
	loading       bool
}

func NewSession(s store.Store, registry *Registry, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Session{
		store:    s,
		registry: registry,
		logger:   logger,
		loading:  true,
	}
}

// Init restores the provider persisted by the last login and, when its
// session is still live, loads the user.
func (s *Session) Init(ctx context.Context) error {
	defer s.setLoading(false)

	raw, err := store.GetOptional(s.store, store.KeyAuthMethod)
	if err != nil {
		return fmt.Errorf("reading auth method: %w", err)
	}

	if raw == "" {
		return nil
	}

	key, ok := model.ParseAuthMethodKey(raw)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, raw)
	}

	p, err := s.registry.Get(key)
	if err != nil {
		return err
	}

	s.setProvider(key, p)

	return s.refresh(ctx, p)
}

// LogIn persists key, then delegates to its provider. Switching providers
// discards the previous one.
func (s *Session) LogIn(ctx context.Context, key model.AuthMethodKey, code string) error {
	p, err := s.registry.Get(key)
	if err != nil {
		return err
	}

	if err := s.store.Set(store.KeyAuthMethod, string(key)); err != nil {
		return fmt.Errorf("saving auth method: %w", err)
	}

	if err := p.LogIn(ctx, code); err != nil {
		return err
	}

	s.setProvider(key, p)

	return s.refresh(ctx, p)
}

// LogOut ends the provider session and forgets the persisted method. It is
// a no-op when nobody is signed in.
func (s *Session) LogOut(ctx context.Context) error {
	s.mu.Lock()
	p := s.provider
	s.mu.Unlock()

	if p == nil {
		return nil
	}

	if err := p.LogOut(ctx); err != nil {
		return err
	}

	if err := s.store.Delete(store.KeyAuthMethod); err != nil {
		return fmt.Errorf("clearing auth method: %w", err)
	}

	s.mu.Lock()
	s.method = ""
	s.provider = nil
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()

	s.logger.Debug("logged out", "method", p.Type())

	return nil
}

// refresh re-reads the authentication status and loads the user when
// authenticated. Provider calls run without the lock held because they may
// reach the API, whose 401 handler logs the session out.
func (s *Session) refresh(ctx context.Context, p Provider) error {
	authenticated, err := p.IsAuthenticated(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.authenticated = authenticated
	s.mu.Unlock()

	if !authenticated {
		return nil
	}

	_, err = s.loadUser(ctx, p)

	return err
}

func (s *Session) loadUser(ctx context.Context, p Provider) (*model.User, error) {
	user, err := p.GetUser(ctx)
	if err != nil {
		s.logger.Error("loading user failed", "method", p.Type(), "error", err)

		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	return user, nil
}

// AuthMethodType returns the lower-cased provider key, or "" when nobody is
// signed in.
func (s *Session) AuthMethodType() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return strings.ToLower(string(s.method))
}

// Method returns the active provider key.
func (s *Session) Method() (model.AuthMethodKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.method, s.provider != nil
}

// GetToken returns the provider token, or "" when there is no provider.
func (s *Session) GetToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	p := s.provider
	s.mu.Unlock()

	if p == nil {
		return "", nil
	}

	return p.GetToken(ctx)
}

// GetUser returns the loaded user, loading it first when needed.
func (s *Session) GetUser(ctx context.Context) (*model.User, error) {
	s.mu.Lock()
	user, p, authenticated := s.user, s.provider, s.authenticated
	s.mu.Unlock()

	if user != nil {
		return user, nil
	}

	if p == nil || !authenticated {
		return nil, ErrNotAuthenticated
	}

	return s.loadUser(ctx, p)
}

// User returns the loaded user without loading it.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.authenticated
}

// IsLoading is true until Init returns.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) setProvider(key model.AuthMethodKey, p Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil && s.method != key {
		s.user = nil
		s.authenticated = false
	}

	s.method = key
	s.provider = p
}
