package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/inovacc/jbconsole/internal/model"
)

// RegisterAdminUser registers the provider profile with the backend and
// returns the stored user, including its JB Manager secret when issued.
// The call is made with the provider token, before any session exists.
func (c *Client) RegisterAdminUser(ctx context.Context, token string, method model.AuthMethodKey, user model.User) (*model.User, error) {
	var registered model.User

	req := Request{
		URL:            c.baseURL + PathAdminUser,
		Method:         http.MethodPost,
		AccessToken:    token,
		LoginMethod:    method.Header(),
		Body:           user,
		OnUnauthorized: c.onUnauthorized,
	}

	if err := Do(ctx, c.httpClient, req, &registered); err != nil {
		return nil, fmt.Errorf("registering admin user: %w", err)
	}

	// the backend may answer with an empty body or a partial record
	merged := user
	if registered.ID != "" {
		merged.ID = registered.ID
	}

	if registered.Username != "" {
		merged.Username = registered.Username
	}

	if registered.Email != "" {
		merged.Email = registered.Email
	}

	merged.Secret = registered.Secret

	return &merged, nil
}

type githubAuthResponse struct {
	AccessToken string `json:"access_token"`
}

// ExchangeGitHubCode trades an OAuth authorization code for an access token
// via the backend, which holds the client secret. An empty token means the
// backend did not issue one.
func (c *Client) ExchangeGitHubCode(ctx context.Context, code string) (string, error) {
	var resp githubAuthResponse
	if err := c.Call(ctx, http.MethodPost, PathGitHubAuth, map[string]string{"code": code}, &resp, WithAccessToken("")); err != nil {
		return "", err
	}

	return resp.AccessToken, nil
}

// IndexData uploads documents into a retrieval collection.
func (c *Client) IndexData(ctx context.Context, collection string, files []string) (map[string]any, error) {
	form := NewForm()
	for _, f := range files {
		form.AddFile("files", f)
	}

	var out map[string]any

	err := c.Call(ctx, http.MethodPost, PathIndexData, form, &out, WithQuery(url.Values{"collection_name": {collection}}))

	return out, err
}
