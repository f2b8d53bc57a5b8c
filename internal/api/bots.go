package api

import (
	"context"
	"net/http"

	"github.com/inovacc/jbconsole/internal/model"
)

// ListBots returns the projects of the logged-in user (home page listing).
func (c *Client) ListBots(ctx context.Context) ([]model.Bot, error) {
	var bots []model.Bot
	if err := c.Call(ctx, http.MethodGet, PathBots, nil, &bots, WithLoginMethodHeader()); err != nil {
		return nil, err
	}

	return bots, nil
}

// ListBotsV2 returns every bot with its channels (bot settings page).
func (c *Client) ListBotsV2(ctx context.Context) ([]model.Bot, error) {
	var bots []model.Bot
	if err := c.Call(ctx, http.MethodGet, PathBotsV2, nil, &bots); err != nil {
		return nil, err
	}

	return bots, nil
}

// ConfigureBot stores credential values for a bot.
func (c *Client) ConfigureBot(ctx context.Context, botID string, credentials map[string]any) error {
	return c.Post(ctx, PathConfigureBot(botID), map[string]any{"credentials": credentials})
}

// BotActivation is the body of the activate endpoint.
type BotActivation struct {
	PhoneNumber string            `json:"phone_number"`
	Channels    map[string]string `json:"channels"`
}

func (c *Client) ActivateBot(ctx context.Context, botID string, activation BotActivation) error {
	return c.Post(ctx, PathActivateBot(botID), activation)
}

// InstallBot installs a bot. The install endpoint authenticates with the
// user's JB Manager secret rather than the provider token.
func (c *Client) InstallBot(ctx context.Context, secret string, payload map[string]any) error {
	return c.Post(ctx, PathInstallBot, payload, WithAccessToken(secret))
}

// PauseBot deactivates a bot.
func (c *Client) PauseBot(ctx context.Context, botID string) error {
	return c.Call(ctx, http.MethodGet, PathDeactivateBot(botID), nil, nil)
}

func (c *Client) DeleteBot(ctx context.Context, botID string) error {
	return c.Call(ctx, http.MethodDelete, PathBot(botID), nil, nil)
}

// UpdateBot applies a partial update.
func (c *Client) UpdateBot(ctx context.Context, botID string, update model.BotUpdate) error {
	return c.Call(ctx, http.MethodPatch, PathPatchBot(botID), update, nil)
}
