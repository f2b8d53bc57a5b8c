package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/inovacc/jbconsole/internal/config"
	"github.com/inovacc/jbconsole/internal/model"
	"github.com/inovacc/jbconsole/internal/store"
)

// MSAuthority is the Microsoft identity platform login host.
const MSAuthority = "https://login.microsoftonline.com/"

// MSProvider signs in against Microsoft Entra ID with the authorization
// code flow and PKCE.
type MSProvider struct {
	cfg         config.MSConfig
	redirectURI string
	endpoint    oauth2.Endpoint
	vault       *store.Vault
	backend     Backend
	flow        *browserFlow
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewMSProvider(d Deps) *MSProvider {
	var (
		cfg      config.MSConfig
		redirect string
	)

	if d.Config != nil {
		cfg = d.Config.MS
		redirect = d.Config.RedirectURI
	}

	tenant := cfg.TenantID
	if tenant == "" {
		tenant = config.DefaultMSTenant
	}

	return &MSProvider{
		cfg:         cfg,
		redirectURI: redirect,
		endpoint:    endpoints.AzureAD(tenant),
		vault:       d.Vault,
		backend:     d.Backend,
		flow:        d.flow(),
		httpClient:  d.HTTPClient,
		logger:      d.logger(),
	}
}

func (p *MSProvider) Type() model.AuthMethodKey {
	return model.AuthMethodMS
}

func (p *MSProvider) oauthConfig(redirectURI string) *oauth2.Config {
	scopes := []string{"openid", "profile", "offline_access"}
	if p.cfg.ScopeURI != "" {
		scopes = append(scopes, p.cfg.ScopeURI)
	}

	return &oauth2.Config{
		ClientID:    p.cfg.ClientID,
		Endpoint:    p.endpoint,
		RedirectURL: redirectURI,
		Scopes:      scopes,
	}
}

// LogIn runs the redirect flow, or exchanges a pasted code using the PKCE
// verifier saved by the last redirect attempt.
func (p *MSProvider) LogIn(ctx context.Context, code string) error {
	if code != "" {
		verifier, err := p.vault.GetSecret(store.KeyMSVerifier)
		if errors.Is(err, store.ErrNotFound) {
			return providerErr(model.AuthMethodMS, "login", errors.New("no pending authorization, run login without a code first"))
		}

		if err != nil {
			return providerErr(model.AuthMethodMS, "login", err)
		}

		return p.exchange(ctx, code, p.redirectURI, verifier)
	}

	verifier := oauth2.GenerateVerifier()
	if err := p.vault.SetSecret(store.KeyMSVerifier, verifier); err != nil {
		return providerErr(model.AuthMethodMS, "login", err)
	}

	state := uuid.NewString()

	res, err := p.flow.run(ctx, func(redirectURI string) string {
		return p.oauthConfig(redirectURI).AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	})
	if err != nil {
		p.logger.Error("microsoft login failed", "error", err)

		return providerErr(model.AuthMethodMS, "login", err)
	}

	if res.State != state {
		return providerErr(model.AuthMethodMS, "login", ErrStateMismatch)
	}

	return p.exchange(ctx, res.Code, res.RedirectURI, verifier)
}

func (p *MSProvider) exchange(ctx context.Context, code, redirectURI, verifier string) error {
	tok, err := p.oauthConfig(redirectURI).Exchange(withHTTPClient(ctx, p.httpClient), code, oauth2.VerifierOption(verifier))
	if err != nil {
		p.logger.Error("microsoft token exchange failed", "error", err)

		return providerErr(model.AuthMethodMS, "exchange", err)
	}

	if err := store.SetSecretJSON(p.vault, store.KeyMSToken, newTokenCache(tok)); err != nil {
		return providerErr(model.AuthMethodMS, "exchange", err)
	}

	_ = p.vault.Delete(store.KeyMSVerifier)

	return nil
}

func (p *MSProvider) LogOut(context.Context) error {
	if err := p.vault.Delete(store.KeyMSToken); err != nil {
		return providerErr(model.AuthMethodMS, "logout", err)
	}

	return nil
}

// IsAuthenticated reports whether an account is cached.
func (p *MSProvider) IsAuthenticated(context.Context) (bool, error) {
	c, err := loadTokenCache(p.vault, store.KeyMSToken)
	if err != nil {
		return false, providerErr(model.AuthMethodMS, "session", err)
	}

	return c != nil, nil
}

// GetToken returns the cached access token, silently refreshed when it has
// expired, or "" when no account is cached.
func (p *MSProvider) GetToken(ctx context.Context) (string, error) {
	c, err := p.session(ctx)
	if err != nil || c == nil {
		return "", err
	}

	return c.Token.AccessToken, nil
}

func (p *MSProvider) session(ctx context.Context) (*tokenCache, error) {
	c, err := loadTokenCache(p.vault, store.KeyMSToken)
	if err != nil {
		return nil, providerErr(model.AuthMethodMS, "session", err)
	}

	if c == nil {
		return nil, nil
	}

	c, err = refreshTokenCache(withHTTPClient(ctx, p.httpClient), p.vault, store.KeyMSToken, p.oauthConfig(p.redirectURI), c)
	if err != nil {
		p.logger.Warn("microsoft silent token refresh failed", "error", err)

		return nil, providerErr(model.AuthMethodMS, "token", err)
	}

	return c, nil
}

// GetUser reads the profile from the ID token and registers it with the
// backend.
func (p *MSProvider) GetUser(ctx context.Context) (*model.User, error) {
	c, err := p.session(ctx)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, providerErr(model.AuthMethodMS, "user", ErrNotAuthenticated)
	}

	claims, err := idTokenClaims(c.IDToken)
	if err != nil {
		return nil, providerErr(model.AuthMethodMS, "user", err)
	}

	user := model.User{
		ID:       claimString(claims, "oid", "sub"),
		Username: claimString(claims, "name", "preferred_username"),
		Email:    claimString(claims, "email", "preferred_username", "upn"),
	}

	registered, err := p.backend.RegisterAdminUser(ctx, c.Token.AccessToken, model.AuthMethodMS, user)
	if err != nil {
		return nil, providerErr(model.AuthMethodMS, "user", err)
	}

	return registered, nil
}
