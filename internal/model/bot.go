package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BotStatus is the lifecycle state reported by the server.
type BotStatus string

const (
	BotStatusActive               BotStatus = "active"
	BotStatusInactive             BotStatus = "inactive"
	BotStatusConfigurationPending BotStatus = "configuration pending"
	BotStatusDeleted              BotStatus = "deleted"
)

// Is compares statuses ignoring case, as the server is not consistent.
func (s BotStatus) Is(other BotStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// Bot is a conversational-bot project.
type Bot struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Credits             float64           `json:"credits"`
	Status              BotStatus         `json:"status"`
	PhoneNumber         string            `json:"phone_number,omitempty"`
	Version             string            `json:"version,omitempty"`
	Channels            []Channel         `json:"channels"`
	RequiredCredentials []string          `json:"required_credentials"`
	Credentials         map[string]string `json:"credentials"`
	CreatedAt           Timestamp         `json:"created_at"`
	Modified            Timestamp         `json:"modified"`
}

// VisibleChannels returns the channels that are not deleted.
func (b *Bot) VisibleChannels() []Channel {
	out := make([]Channel, 0, len(b.Channels))

	for _, ch := range b.Channels {
		if ch.Status == ChannelStatusDeleted {
			continue
		}

		out = append(out, ch)
	}

	return out
}

// FindBot returns the bot with the given id, or nil.
func FindBot(bots []Bot, id string) *Bot {
	for i := range bots {
		if bots[i].ID == id {
			return &bots[i]
		}
	}

	return nil
}

// BotUpdate is the partial update accepted by PATCH /bot/{id}.
type BotUpdate struct {
	Name        *string  `json:"name,omitempty"`
	PhoneNumber *string  `json:"phone_number,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Version     *string  `json:"version,omitempty"`
	Channels    []string `json:"channels,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u BotUpdate) IsEmpty() bool {
	return u.Name == nil && u.PhoneNumber == nil && u.Status == nil && u.Version == nil && len(u.Channels) == 0
}

// timestampLayouts covers what the API emits: RFC 3339 and naive ISO
// timestamps with or without fractional seconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time decoded leniently from the API. Naive values are UTC.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses any of the layouts the API is known to emit.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}

	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		*t = Timestamp{}

		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(t.Format(time.RFC3339Nano))
}
