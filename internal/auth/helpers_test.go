package auth

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inovacc/jbconsole/internal/config"
	"github.com/inovacc/jbconsole/internal/model"
	"github.com/inovacc/jbconsole/internal/store"
)

func setupTestVault(t *testing.T) *store.Vault {
	t.Helper()

	s, err := store.NewBolt(filepath.Join(t.TempDir(), "test.bolt"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	return store.NewVault(s, key)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ServerHost = "http://jb.test"
	cfg.RedirectURI = "http://127.0.0.1:0/callback"
	cfg.MS = config.MSConfig{ClientID: "ms-client", TenantID: "contoso", ScopeURI: "api://jb/.default"}
	cfg.Google = config.GoogleConfig{ClientID: "g-client", ClientSecret: "g-secret"}
	cfg.GitHub = config.GitHubConfig{ClientID: "gh-client", Host: config.DefaultGitHubHost}

	return cfg
}

type fakeBackend struct {
	mu sync.Mutex

	exchangeToken string
	exchangeErr   error
	codes         []string

	registerErr error
	registered  []model.User
	tokens      []string
	methods     []model.AuthMethodKey
}

func (b *fakeBackend) RegisterAdminUser(_ context.Context, token string, method model.AuthMethodKey, user model.User) (*model.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.registerErr != nil {
		return nil, b.registerErr
	}

	b.registered = append(b.registered, user)
	b.tokens = append(b.tokens, token)
	b.methods = append(b.methods, method)

	user.Secret = "jb-secret-" + user.ID

	return &user, nil
}

func (b *fakeBackend) ExchangeGitHubCode(_ context.Context, code string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.codes = append(b.codes, code)

	return b.exchangeToken, b.exchangeErr
}

// fakeBrowser plays the user: it follows the authorize URL straight to the
// redirect URI with code and the state it was given (or a forged one).
type fakeBrowser struct {
	code        string
	forgedState string

	mu      sync.Mutex
	visited []string
}

func (b *fakeBrowser) open(authURL string) error {
	b.mu.Lock()
	b.visited = append(b.visited, authURL)
	b.mu.Unlock()

	u, err := url.Parse(authURL)
	if err != nil {
		return err
	}

	q := u.Query()

	state := q.Get("state")
	if b.forgedState != "" {
		state = b.forgedState
	}

	callback := q.Get("redirect_uri") + "?" + url.Values{"code": {b.code}, "state": {state}}.Encode()

	resp, err := http.Get(callback) //nolint:noctx // test helper
	if err != nil {
		return err
	}

	return resp.Body.Close()
}

func (b *fakeBrowser) lastURL(t *testing.T) *url.URL {
	t.Helper()

	b.mu.Lock()
	defer b.mu.Unlock()

	require.NotEmpty(t, b.visited)

	u, err := url.Parse(b.visited[len(b.visited)-1])
	require.NoError(t, err)

	return u
}
