package model

import (
	"encoding/json"
	"fmt"
)

// MessageType discriminates how a transcript message is rendered.
type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypeImage       MessageType = "image"
	MessageTypeInteractive MessageType = "interactive"
	MessageTypeAudio       MessageType = "audio"
)

// ChatSession is one conversation of a bot.
type ChatSession struct {
	ID        string    `json:"id"`
	CreatedAt Timestamp `json:"created_at"`
}

// ChatUser is the end user on the other side of a session.
type ChatUser struct {
	Identifier string `json:"identifier"`
}

// SessionEntry pairs a session with its user. The API encodes it as a
// two-element JSON array.
type SessionEntry struct {
	Session ChatSession
	User    ChatUser
}

func (e *SessionEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}

	if len(pair) != 2 {
		return fmt.Errorf("session entry: expected 2 elements, got %d", len(pair))
	}

	if err := json.Unmarshal(pair[0], &e.Session); err != nil {
		return fmt.Errorf("session entry: %w", err)
	}

	if err := json.Unmarshal(pair[1], &e.User); err != nil {
		return fmt.Errorf("session entry user: %w", err)
	}

	return nil
}

func (e SessionEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Session, e.User})
}

// Message is a single transcript entry.
type Message struct {
	ID          string      `json:"id"`
	MessageType MessageType `json:"message_type"`
	MessageText string      `json:"message_text"`
	IsUserSent  bool        `json:"is_user_sent"`
	MediaURL    string      `json:"media_url"`
	CreatedAt   Timestamp   `json:"created_at"`
}

// Turn groups the messages of one exchange.
type Turn struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// SessionDetail is a session with its ordered turns.
type SessionDetail struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`
}

// Messages flattens the turns in order.
func (d *SessionDetail) Messages() []Message {
	var out []Message

	for _, turn := range d.Turns {
		out = append(out, turn.Messages...)
	}

	return out
}
