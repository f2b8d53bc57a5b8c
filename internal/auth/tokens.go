package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/inovacc/jbconsole/internal/store"
)

// tokenCache is what the MS and Google providers keep in the vault.
// oauth2.Token does not serialise its extras, so the ID token is kept
// alongside it.
type tokenCache struct {
	Token   *oauth2.Token `json:"token"`
	IDToken string        `json:"id_token,omitempty"`
}

func newTokenCache(tok *oauth2.Token) *tokenCache {
	c := &tokenCache{Token: tok}
	if id, ok := tok.Extra("id_token").(string); ok {
		c.IDToken = id
	}

	return c
}

func loadTokenCache(v *store.Vault, key string) (*tokenCache, error) {
	c, err := store.GetSecretJSON[tokenCache](v, key)
	if err != nil {
		return nil, err
	}

	if c == nil || c.Token == nil {
		return nil, nil
	}

	return c, nil
}

// refreshTokenCache returns a valid access token for c, refreshing it
// through cfg when it has expired and persisting the result.
func refreshTokenCache(ctx context.Context, v *store.Vault, key string, cfg *oauth2.Config, c *tokenCache) (*tokenCache, error) {
	if c.Token.Valid() {
		return c, nil
	}

	tok, err := cfg.TokenSource(ctx, c.Token).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}

	fresh := newTokenCache(tok)
	if fresh.IDToken == "" {
		fresh.IDToken = c.IDToken
	}

	if err := store.SetSecretJSON(v, key, fresh); err != nil {
		return nil, err
	}

	return fresh, nil
}

func withHTTPClient(ctx context.Context, c *http.Client) context.Context {
	if c == nil {
		return ctx
	}

	return context.WithValue(ctx, oauth2.HTTPClient, c)
}

// idTokenClaims decodes the claims of an ID token received directly from
// the token endpoint. The signature is not checked.
func idTokenClaims(raw string) (jwt.MapClaims, error) {
	if raw == "" {
		return nil, fmt.Errorf("no id token in session")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parsing id token: %w", err)
	}

	return claims, nil
}

// claimString returns the first non-empty string claim among keys.
func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}

	return ""
}
