package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuthMethodKey(t *testing.T) {
	tests := []struct {
		in   string
		want AuthMethodKey
		ok   bool
	}{
		{"MS", AuthMethodMS, true},
		{"google", AuthMethodGoogle, true},
		{" GitHub ", AuthMethodGitHub, true},
		{"okta", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAuthMethodKey(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthMethodKey_Header(t *testing.T) {
	assert.Equal(t, "ms", AuthMethodMS.Header())
	assert.Equal(t, "github", AuthMethodGitHub.Header())
}

func TestBot_Decode(t *testing.T) {
	raw := `{
		"id": "b1",
		"name": "Legal Bot",
		"credits": 12.5,
		"status": "Configuration Pending",
		"channels": [{"id": "c1", "name": "wa", "type": "pinnacle_whatsapp", "status": "inactive"}],
		"required_credentials": ["OPENAI_KEY"],
		"credentials": {"OPENAI_KEY": "sk"},
		"created_at": "2024-05-01T10:00:00.123456",
		"modified": null
	}`

	var bot Bot
	require.NoError(t, json.Unmarshal([]byte(raw), &bot))

	assert.Equal(t, "b1", bot.ID)
	assert.InDelta(t, 12.5, bot.Credits, 0.0001)
	assert.True(t, bot.Status.Is(BotStatusConfigurationPending))
	assert.False(t, bot.Status.Is(BotStatusActive))
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), bot.CreatedAt.Time)
	assert.True(t, bot.Modified.IsZero())
	require.Len(t, bot.Channels, 1)
	assert.Equal(t, "pinnacle_whatsapp", bot.Channels[0].Type)
}

func TestParseTimestamp(t *testing.T) {
	for _, in := range []string{
		"2024-05-01T10:00:00Z",
		"2024-05-01T10:00:00+05:30",
		"2024-05-01T10:00:00",
		"2024-05-01 10:00:00.5",
		"2024-05-01",
	} {
		t.Run(in, func(t *testing.T) {
			ts, err := ParseTimestamp(in)
			require.NoError(t, err)
			assert.Equal(t, 2024, ts.Year())
		})
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestBot_VisibleChannels(t *testing.T) {
	bot := Bot{Channels: []Channel{
		{ID: "a", Status: ChannelStatusActive},
		{ID: "b", Status: ChannelStatusDeleted},
		{ID: "c", Status: ChannelStatusInactive},
	}}

	visible := bot.VisibleChannels()
	require.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].ID)
	assert.Equal(t, "c", visible[1].ID)
}

func TestSetChannelStatus(t *testing.T) {
	bots := []Bot{
		{ID: "b1", Channels: []Channel{
			{ID: "c1", Status: ChannelStatusInactive},
			{ID: "c2", Status: ChannelStatusInactive},
		}},
		{ID: "b2", Channels: []Channel{
			{ID: "c1", Status: ChannelStatusInactive},
		}},
	}

	updated := SetChannelStatus(bots, "b1", "c1", ChannelStatusActive)

	assert.Equal(t, ChannelStatusActive, updated[0].Channels[0].Status)
	assert.Equal(t, ChannelStatusInactive, updated[0].Channels[1].Status)
	assert.Equal(t, ChannelStatusInactive, updated[1].Channels[0].Status, "same channel id on another bot must not change")

	// the input is not mutated
	assert.Equal(t, ChannelStatusInactive, bots[0].Channels[0].Status)
}

func TestSessionEntry_Decode(t *testing.T) {
	raw := `[[{"id": "s1", "created_at": "2024-01-02T03:04:05"}, {"identifier": "+911234"}]]`

	var entries []SessionEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "s1", entries[0].Session.ID)
	assert.Equal(t, "+911234", entries[0].User.Identifier)

	var bad []SessionEntry
	assert.Error(t, json.Unmarshal([]byte(`[[{"id": "s1"}]]`), &bad))
}

func TestSessionDetail_Messages(t *testing.T) {
	d := SessionDetail{Turns: []Turn{
		{Messages: []Message{{ID: "1"}, {ID: "2"}}},
		{Messages: []Message{{ID: "3"}}},
	}}

	msgs := d.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "3", msgs[2].ID)
}

func TestBotUpdate_IsEmpty(t *testing.T) {
	assert.True(t, BotUpdate{}.IsEmpty())

	name := "x"
	assert.False(t, BotUpdate{Name: &name}.IsEmpty())
}
