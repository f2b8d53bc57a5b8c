package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/inovacc/jbconsole/internal/config"
	"github.com/inovacc/jbconsole/internal/model"
	"github.com/inovacc/jbconsole/internal/store"
)

// GoogleUserInfoURL is the OpenID Connect userinfo endpoint.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleScopes are requested on every sign-in.
var GoogleScopes = []string{"profile", "email", "openid"}

// GoogleProvider signs in with Google OAuth. The OAuth client is built on
// first use.
type GoogleProvider struct {
	cfg         config.GoogleConfig
	redirectURI string
	vault       *store.Vault
	backend     Backend
	flow        *browserFlow
	httpClient  *http.Client
	logger      *slog.Logger

	endpoint    oauth2.Endpoint
	userInfoURL string

	once   sync.Once
	client *oauth2.Config
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func NewGoogleProvider(d Deps) *GoogleProvider {
	p := &GoogleProvider{
		vault:       d.Vault,
		backend:     d.Backend,
		flow:        d.flow(),
		httpClient:  d.HTTPClient,
		logger:      d.logger(),
		endpoint:    endpoints.Google,
		userInfoURL: GoogleUserInfoURL,
	}

	if d.Config != nil {
		p.cfg = d.Config.Google
		p.redirectURI = d.Config.RedirectURI
	}

	return p
}

func (p *GoogleProvider) Type() model.AuthMethodKey {
	return model.AuthMethodGoogle
}

// oauthConfig returns the client for redirectURI, initialising the shared
// client on first use.
func (p *GoogleProvider) oauthConfig(redirectURI string) *oauth2.Config {
	p.once.Do(func() {
		p.logger.Debug("initialising google oauth client")

		p.client = &oauth2.Config{
			ClientID:     p.cfg.ClientID,
			ClientSecret: p.cfg.ClientSecret,
			Endpoint:     p.endpoint,
			RedirectURL:  p.redirectURI,
			Scopes:       GoogleScopes,
		}
	})

	if redirectURI == "" || redirectURI == p.client.RedirectURL {
		return p.client
	}

	c := *p.client
	c.RedirectURL = redirectURI

	return &c
}

func (p *GoogleProvider) LogIn(ctx context.Context, code string) error {
	if code != "" {
		return p.exchange(ctx, code, p.redirectURI)
	}

	state := uuid.NewString()
	if err := p.vault.Set(store.KeyGoogleState, state); err != nil {
		return providerErr(model.AuthMethodGoogle, "login", err)
	}

	res, err := p.flow.run(ctx, func(redirectURI string) string {
		return p.oauthConfig(redirectURI).AuthCodeURL(state, oauth2.AccessTypeOffline)
	})
	if err != nil {
		p.logger.Error("google login failed", "error", err)

		return providerErr(model.AuthMethodGoogle, "login", err)
	}

	if res.State != state {
		return providerErr(model.AuthMethodGoogle, "login", ErrStateMismatch)
	}

	return p.exchange(ctx, res.Code, res.RedirectURI)
}

func (p *GoogleProvider) exchange(ctx context.Context, code, redirectURI string) error {
	tok, err := p.oauthConfig(redirectURI).Exchange(withHTTPClient(ctx, p.httpClient), code)
	if err != nil {
		p.logger.Error("google token exchange failed", "error", err)

		return providerErr(model.AuthMethodGoogle, "exchange", err)
	}

	if err := store.SetSecretJSON(p.vault, store.KeyGoogleToken, newTokenCache(tok)); err != nil {
		return providerErr(model.AuthMethodGoogle, "exchange", err)
	}

	_ = p.vault.Delete(store.KeyGoogleState)

	return nil
}

func (p *GoogleProvider) LogOut(context.Context) error {
	if err := p.vault.Delete(store.KeyGoogleToken); err != nil {
		return providerErr(model.AuthMethodGoogle, "logout", err)
	}

	return nil
}

// IsAuthenticated reports whether a usable session is cached: an unexpired
// token or one that can be refreshed.
func (p *GoogleProvider) IsAuthenticated(context.Context) (bool, error) {
	c, err := loadTokenCache(p.vault, store.KeyGoogleToken)
	if err != nil {
		return false, providerErr(model.AuthMethodGoogle, "session", err)
	}

	if c == nil {
		return false, nil
	}

	return c.Token.Valid() || c.Token.RefreshToken != "", nil
}

func (p *GoogleProvider) GetToken(ctx context.Context) (string, error) {
	c, err := loadTokenCache(p.vault, store.KeyGoogleToken)
	if err != nil {
		return "", providerErr(model.AuthMethodGoogle, "session", err)
	}

	if c == nil {
		return "", nil
	}

	c, err = refreshTokenCache(withHTTPClient(ctx, p.httpClient), p.vault, store.KeyGoogleToken, p.oauthConfig(""), c)
	if err != nil {
		return "", providerErr(model.AuthMethodGoogle, "token", err)
	}

	return c.Token.AccessToken, nil
}

// GetUser reads the userinfo profile and registers it with the backend.
func (p *GoogleProvider) GetUser(ctx context.Context) (*model.User, error) {
	token, err := p.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, providerErr(model.AuthMethodGoogle, "user", ErrNotAuthenticated)
	}

	info, err := p.userInfo(ctx, token)
	if err != nil {
		return nil, providerErr(model.AuthMethodGoogle, "user", err)
	}

	user := model.User{
		ID:       info.Sub,
		Username: info.Name,
		Email:    info.Email,
		Photo:    info.Picture,
	}

	registered, err := p.backend.RegisterAdminUser(ctx, token, model.AuthMethodGoogle, user)
	if err != nil {
		return nil, providerErr(model.AuthMethodGoogle, "user", err)
	}

	return registered, nil
}

func (p *GoogleProvider) userInfo(ctx context.Context, token string) (*googleUserInfo, error) {
	client := oauth2.NewClient(withHTTPClient(ctx, p.httpClient), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, fmt.Errorf("userinfo error %d: %s", resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	if info.Sub == "" {
		return nil, errors.New("userinfo has no subject")
	}

	return &info, nil
}
