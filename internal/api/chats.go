package api

import (
	"context"
	"net/http"

	"github.com/inovacc/jbconsole/internal/model"
)

func (c *Client) ListChatSessions(ctx context.Context, botID string) ([]model.SessionEntry, error) {
	var sessions []model.SessionEntry
	if err := c.Call(ctx, http.MethodGet, PathChats(botID), nil, &sessions); err != nil {
		return nil, err
	}

	return sessions, nil
}

// GetSession returns the session's turns. The API wraps the session in a
// single-element list; an empty list yields nil.
func (c *Client) GetSession(ctx context.Context, botID, sessionID string) (*model.SessionDetail, error) {
	var details []model.SessionDetail
	if err := c.Call(ctx, http.MethodGet, PathChatSession(botID, sessionID), nil, &details); err != nil {
		return nil, err
	}

	if len(details) == 0 {
		return nil, nil
	}

	return &details[0], nil
}
