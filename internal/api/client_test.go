package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/jbconsole/internal/model"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) GetToken(context.Context) (string, error) {
	return s.token, s.err
}

// fakeServer routes "METHOD path" to canned JSON responses and records the
// decoded request bodies.
type fakeServer struct {
	mu       sync.Mutex
	routes   map[string]string
	requests []*http.Request
	bodies   []map[string]any
}

func newFakeServer(t *testing.T, routes map[string]string) (*fakeServer, *httptest.Server) {
	t.Helper()

	fs := &fakeServer{routes: routes}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)

		var body map[string]any
		_ = json.Unmarshal(data, &body)

		fs.mu.Lock()
		fs.requests = append(fs.requests, r.Clone(context.Background()))
		fs.bodies = append(fs.bodies, body)
		fs.mu.Unlock()

		resp, ok := fs.routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	return fs, srv
}

func (fs *fakeServer) last() (*http.Request, map[string]any) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n := len(fs.requests)

	return fs.requests[n-1], fs.bodies[n-1]
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{
		WithTokenSource(staticTokens{token: "session-token"}),
		WithLoginMethod(func() string { return "google" }),
	}, opts...)

	return NewClient(srv.URL+"/", opts...)
}

func TestNewClient_TrimsBaseURL(t *testing.T) {
	c := NewClient("https://jb.example.com///")
	assert.Equal(t, "https://jb.example.com", c.BaseURL())
}

func TestClient_ListBots(t *testing.T) {
	fs, srv := newFakeServer(t, map[string]string{
		"GET /bots": `[{"id":"b1","name":"Helper","status":"active","credits":12.5,"created_at":"2024-02-01T10:00:00"}]`,
	})

	bots, err := newTestClient(srv).ListBots(context.Background())
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.Equal(t, "Helper", bots[0].Name)
	assert.InDelta(t, 12.5, bots[0].Credits, 0.001)

	req, _ := fs.last()
	assert.Equal(t, "Bearer session-token", req.Header.Get("Authorization"))
	assert.Equal(t, "google", req.Header.Get(LoginMethodHeader))
}

func TestClient_ListBotsV2NoLoginHeader(t *testing.T) {
	fs, srv := newFakeServer(t, map[string]string{
		"GET /v2/bot/": `[{"id":"b1","channels":[{"id":"c1","status":"active"}]}]`,
	})

	bots, err := newTestClient(srv).ListBotsV2(context.Background())
	require.NoError(t, err)
	require.Len(t, bots[0].Channels, 1)

	req, _ := fs.last()
	assert.Empty(t, req.Header.Get(LoginMethodHeader))
	assert.Equal(t, "Bearer session-token", req.Header.Get("Authorization"))
}

func TestClient_TokenSourceError(t *testing.T) {
	_, srv := newFakeServer(t, nil)

	boom := errors.New("no session")
	c := NewClient(srv.URL, WithTokenSource(staticTokens{err: boom}))

	_, err := c.ListBotsV2(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestClient_UnauthorizedHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	calls := 0
	c := newTestClient(srv, WithUnauthorizedHandler(func() { calls++ }))

	bots, err := c.ListBots(context.Background())
	require.Error(t, err)
	assert.Nil(t, bots)
	assert.Equal(t, 1, calls)

	_, err = c.ListChannelTypes(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, calls, "each 401 fires the handler once")
}

func TestClient_BotOperations(t *testing.T) {
	fs, srv := newFakeServer(t, map[string]string{
		"POST /v1/bot/b1/configure": `{}`,
		"POST /v1/bot/b1/activate":  `{}`,
		"GET /v1/bot/b1/deactivate": `{}`,
		"DELETE /v1/bot/b1":         `{}`,
		"PATCH /bot/b1":             `{}`,
		"POST /v1/bot/install":      `{}`,
	})

	c := newTestClient(srv)
	ctx := context.Background()

	t.Run("configure", func(t *testing.T) {
		require.NoError(t, c.ConfigureBot(ctx, "b1", map[string]any{"API_KEY": "k"}))

		req, body := fs.last()
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, map[string]any{"credentials": map[string]any{"API_KEY": "k"}}, body)
	})

	t.Run("activate", func(t *testing.T) {
		err := c.ActivateBot(ctx, "b1", BotActivation{PhoneNumber: "919876543210", Channels: map[string]string{"whatsapp": "wa-key"}})
		require.NoError(t, err)

		_, body := fs.last()
		assert.Equal(t, "919876543210", body["phone_number"])
		assert.Equal(t, map[string]any{"whatsapp": "wa-key"}, body["channels"])
	})

	t.Run("pause", func(t *testing.T) {
		require.NoError(t, c.PauseBot(ctx, "b1"))

		req, _ := fs.last()
		assert.Equal(t, "/v1/bot/b1/deactivate", req.URL.Path)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.DeleteBot(ctx, "b1"))

		req, _ := fs.last()
		assert.Equal(t, http.MethodDelete, req.Method)
	})

	t.Run("update", func(t *testing.T) {
		name := "Renamed"
		require.NoError(t, c.UpdateBot(ctx, "b1", model.BotUpdate{Name: &name}))

		req, body := fs.last()
		assert.Equal(t, http.MethodPatch, req.Method)
		assert.Equal(t, "Renamed", body["name"])
	})

	t.Run("install uses the secret", func(t *testing.T) {
		require.NoError(t, c.InstallBot(ctx, "jb-secret", map[string]any{"name": "Helper", "code": "print(1)"}))

		req, body := fs.last()
		assert.Equal(t, "Bearer jb-secret", req.Header.Get("Authorization"))
		assert.Equal(t, "Helper", body["name"])
	})
}

func TestClient_ChannelOperations(t *testing.T) {
	fs, srv := newFakeServer(t, map[string]string{
		"GET /v2/channel/":              `["telegram","pinnacle_whatsapp"]`,
		"POST /v2/bot/b1/channel":       `{}`,
		"POST /v2/channel/c1":           `{}`,
		"DELETE /v2/channel/c1/":        `{"status":"success"}`,
		"GET /v2/channel/c1/activate":   `{"status":"success"}`,
		"GET /v2/channel/c1/deactivate": `{"status":"failed"}`,
	})

	c := newTestClient(srv)
	ctx := context.Background()

	types, err := c.ListChannelTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"telegram", "pinnacle_whatsapp"}, types)

	content := model.ChannelContent{Name: "wa", Type: "pinnacle_whatsapp", URL: "https://wa.example.com", AppID: "123", Key: "k"}

	require.NoError(t, c.AddChannel(ctx, "b1", content))

	_, body := fs.last()
	assert.Equal(t, "123", body["app_id"])
	assert.Equal(t, "pinnacle_whatsapp", body["type"])

	require.NoError(t, c.UpdateChannel(ctx, "c1", content))

	resp, err := c.DeleteChannel(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, resp.OK())

	resp, err = c.SetChannelActive(ctx, "c1", true)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	resp, err = c.SetChannelActive(ctx, "c1", false)
	require.NoError(t, err)
	assert.False(t, resp.OK())
}

func TestClient_Chats(t *testing.T) {
	_, srv := newFakeServer(t, map[string]string{
		"GET /v1/chats/b1":             `[[{"id":"s1","created_at":"2024-03-05T09:30:00"},{"identifier":"+9100"}]]`,
		"GET /v1/chats/b1/sessions/s1": `[{"id":"s1","turns":[{"id":"t1","messages":[` +
			`{"id":"m1","message_type":"text","message_text":"hi","is_user_sent":true},` +
			`{"id":"m2","message_type":"audio","media_url":"https://cdn/a.ogg"}]}]}]`,
		"GET /v1/chats/b1/sessions/empty": `[]`,
	})

	c := newTestClient(srv)
	ctx := context.Background()

	sessions, err := c.ListChatSessions(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].Session.ID)
	assert.Equal(t, "+9100", sessions[0].User.Identifier)

	detail, err := c.GetSession(ctx, "b1", "s1")
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.Len(t, detail.Messages(), 2)
	assert.Equal(t, model.MessageTypeAudio, detail.Messages()[1].MessageType)

	detail, err = c.GetSession(ctx, "b1", "empty")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestClient_RegisterAdminUser(t *testing.T) {
	fs, srv := newFakeServer(t, map[string]string{
		"POST /admin_user": `{"id":"u1","jb_secret":"s3cr3t"}`,
	})

	c := newTestClient(srv)

	user, err := c.RegisterAdminUser(context.Background(), "provider-token", model.AuthMethodGitHub,
		model.User{ID: "gh-1", Username: "octo", Email: "octo@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "octo", user.Username)
	assert.Equal(t, "s3cr3t", user.Secret)

	req, body := fs.last()
	assert.Equal(t, "Bearer provider-token", req.Header.Get("Authorization"))
	assert.Equal(t, "github", req.Header.Get(LoginMethodHeader))
	assert.Equal(t, "octo@example.com", body["email"])
}

func TestClient_ExchangeGitHubCode(t *testing.T) {
	fs, srv := newFakeServer(t, map[string]string{
		"POST /github-auth": `{"access_token":"gho_abc"}`,
	})

	token, err := newTestClient(srv).ExchangeGitHubCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "gho_abc", token)

	req, body := fs.last()
	assert.Empty(t, req.Header.Get("Authorization"), "the exchange is unauthenticated")
	assert.Equal(t, "the-code", body["code"])
}

func TestClient_IndexDataQuery(t *testing.T) {
	var query string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("collection_name")
		_, _ = io.WriteString(w, `{"indexed":0}`)
	}))
	defer srv.Close()

	out, err := newTestClient(srv).IndexData(context.Background(), "faq docs", nil)
	require.NoError(t, err)
	assert.Equal(t, "faq docs", query)
	assert.InDelta(t, 0, out["indexed"], 0)
}

func TestClient_ServerErrorDetail(t *testing.T) {
	_, srv := newFakeServer(t, nil)

	err := newTestClient(srv).DeleteBot(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "not found", DetailOf(err))
}
