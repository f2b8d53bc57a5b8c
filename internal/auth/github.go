package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cli/oauth"
	"github.com/google/go-github/v82/github"
	"github.com/google/uuid"

	"github.com/inovacc/jbconsole/internal/config"
	"github.com/inovacc/jbconsole/internal/model"
	"github.com/inovacc/jbconsole/internal/store"
)

// GitHubScope is the only scope the console asks for.
const GitHubScope = "read:user"

// GitHubProvider signs in with a GitHub OAuth app. The code is exchanged
// by the JB Manager backend, which holds the client secret.
type GitHubProvider struct {
	clientID    string
	host        string
	redirectURI string
	vault       *store.Vault
	backend     Backend
	flow        *browserFlow
	httpClient  *http.Client
	logger      *slog.Logger

	// apiBaseURL overrides the REST endpoint derived from host
	apiBaseURL string
}

func NewGitHubProvider(d Deps) *GitHubProvider {
	p := &GitHubProvider{
		host:       config.DefaultGitHubHost,
		vault:      d.Vault,
		backend:    d.Backend,
		flow:       d.flow(),
		httpClient: d.HTTPClient,
		logger:     d.logger(),
	}

	if d.Config != nil {
		p.clientID = d.Config.GitHub.ClientID
		p.redirectURI = d.Config.RedirectURI

		if d.Config.GitHub.Host != "" {
			p.host = d.Config.GitHub.Host
		}
	}

	return p
}

func (p *GitHubProvider) Type() model.AuthMethodKey {
	return model.AuthMethodGitHub
}

// AuthorizeURL returns the authorize page URL for redirectURI and state.
func (p *GitHubProvider) AuthorizeURL(redirectURI, state string) (string, error) {
	host, err := oauth.NewGitHubHost(p.host)
	if err != nil {
		return "", fmt.Errorf("invalid GitHub host: %w", err)
	}

	params := url.Values{}
	params.Set("client_id", p.clientID)
	params.Set("scope", GitHubScope)
	params.Set("redirect_uri", redirectURI)
	params.Set("state", state)

	return host.AuthorizeURL + "?" + params.Encode(), nil
}

// LogIn with an empty code persists a fresh state, opens the authorize
// page and waits for the redirect. A non-empty code is exchanged directly.
func (p *GitHubProvider) LogIn(ctx context.Context, code string) error {
	if code != "" {
		return p.exchange(ctx, code)
	}

	state := uuid.NewString()
	if err := p.vault.Set(store.KeyGitHubState, state); err != nil {
		return providerErr(model.AuthMethodGitHub, "login", err)
	}

	// validate the host before a listener is started
	if _, err := p.AuthorizeURL(p.redirectURI, state); err != nil {
		return providerErr(model.AuthMethodGitHub, "login", err)
	}

	res, err := p.flow.run(ctx, func(redirectURI string) string {
		u, _ := p.AuthorizeURL(redirectURI, state)

		return u
	})
	if err != nil {
		p.logger.Error("github login failed", "error", err)

		return providerErr(model.AuthMethodGitHub, "login", err)
	}

	ok, err := p.VerifyState(res.State)
	if err != nil {
		return providerErr(model.AuthMethodGitHub, "login", err)
	}

	if !ok {
		return providerErr(model.AuthMethodGitHub, "login", ErrStateMismatch)
	}

	return p.exchange(ctx, res.Code)
}

// VerifyState reports whether returned matches the state persisted by the
// last login attempt.
func (p *GitHubProvider) VerifyState(returned string) (bool, error) {
	stored, err := store.GetOptional(p.vault, store.KeyGitHubState)
	if err != nil {
		return false, err
	}

	if stored == "" || returned == "" {
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(returned)) == 1, nil
}

func (p *GitHubProvider) exchange(ctx context.Context, code string) error {
	token, err := p.backend.ExchangeGitHubCode(ctx, code)
	if err != nil {
		p.logger.Error("github code exchange failed", "error", err)

		return providerErr(model.AuthMethodGitHub, "exchange", err)
	}

	if token == "" {
		return providerErr(model.AuthMethodGitHub, "exchange", ErrNoAccessToken)
	}

	if err := p.vault.SetSecret(store.KeyGitHubToken, token); err != nil {
		return providerErr(model.AuthMethodGitHub, "exchange", err)
	}

	return nil
}

func (p *GitHubProvider) LogOut(context.Context) error {
	if err := p.vault.Delete(store.KeyGitHubToken); err != nil {
		return providerErr(model.AuthMethodGitHub, "logout", err)
	}

	return nil
}

// IsAuthenticated reports whether an access token is cached.
func (p *GitHubProvider) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := p.GetToken(ctx)

	return token != "", err
}

func (p *GitHubProvider) GetToken(context.Context) (string, error) {
	token, err := p.vault.GetSecret(store.KeyGitHubToken)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}

	if err != nil {
		return "", providerErr(model.AuthMethodGitHub, "token", err)
	}

	return token, nil
}

// GetUser reads the GitHub profile and registers it with the backend.
func (p *GitHubProvider) GetUser(ctx context.Context) (*model.User, error) {
	token, err := p.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, providerErr(model.AuthMethodGitHub, "user", ErrNotAuthenticated)
	}

	client, err := p.restClient(token)
	if err != nil {
		return nil, providerErr(model.AuthMethodGitHub, "user", err)
	}

	gh, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, providerErr(model.AuthMethodGitHub, "user", fmt.Errorf("failed to get user: %w", err))
	}

	user := model.User{
		ID:       strconv.FormatInt(gh.GetID(), 10),
		Username: gh.GetLogin(),
		Email:    gh.GetEmail(),
		Photo:    gh.GetAvatarURL(),
	}

	registered, err := p.backend.RegisterAdminUser(ctx, token, model.AuthMethodGitHub, user)
	if err != nil {
		return nil, providerErr(model.AuthMethodGitHub, "user", err)
	}

	return registered, nil
}

func (p *GitHubProvider) restClient(token string) (*github.Client, error) {
	client := github.NewClient(p.httpClient).WithAuthToken(token)

	if p.apiBaseURL != "" {
		base, err := url.Parse(strings.TrimRight(p.apiBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API URL: %w", err)
		}

		client.BaseURL = base

		return client, nil
	}

	// Handle enterprise GitHub
	host := strings.TrimRight(p.host, "/")
	if host != config.DefaultGitHubHost {
		return client.WithEnterpriseURLs(host+"/api/v3/", host+"/api/uploads/")
	}

	return client, nil
}
