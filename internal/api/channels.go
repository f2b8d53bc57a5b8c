package api

import (
	"context"
	"net/http"

	"github.com/inovacc/jbconsole/internal/model"
)

// ListChannelTypes returns the channel providers the server supports.
func (c *Client) ListChannelTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.Call(ctx, http.MethodGet, PathChannelTypes, nil, &types); err != nil {
		return nil, err
	}

	return types, nil
}

func (c *Client) AddChannel(ctx context.Context, botID string, content model.ChannelContent) error {
	return c.Post(ctx, PathBotChannels(botID), content)
}

func (c *Client) UpdateChannel(ctx context.Context, channelID string, content model.ChannelContent) error {
	return c.Post(ctx, PathChannel(channelID), content)
}

// DeleteChannel removes a channel. The trailing slash is part of the route.
func (c *Client) DeleteChannel(ctx context.Context, channelID string) (model.StatusResponse, error) {
	var resp model.StatusResponse
	err := c.Call(ctx, http.MethodDelete, PathChannel(channelID)+"/", nil, &resp)

	return resp, err
}

// SetChannelActive calls the activate or deactivate endpoint.
func (c *Client) SetChannelActive(ctx context.Context, channelID string, active bool) (model.StatusResponse, error) {
	var resp model.StatusResponse
	err := c.Call(ctx, http.MethodGet, PathChannelToggle(channelID, active), nil, &resp)

	return resp, err
}
