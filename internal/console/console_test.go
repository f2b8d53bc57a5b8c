package console

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/jbconsole/internal/model"
)

func ts(t *testing.T, s string) model.Timestamp {
	t.Helper()

	parsed, err := model.ParseTimestamp(s)
	require.NoError(t, err)

	return parsed
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-02-03T10:00:00", "3rd Feb 24"},
		{"2023-11-21T00:00:00Z", "21st Nov 23"},
		{"2025-01-12", "12th Jan 25"},
		{"2024-06-22 08:00:00", "22nd Jun 24"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDate(ts(t, tt.in)), tt.in)
	}

	assert.Equal(t, "-", FormatDate(model.Timestamp{}))
}

func TestFormatSessionDate(t *testing.T) {
	assert.Equal(t, "03/02/2024", FormatSessionDate(model.Timestamp{Time: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)}))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, ColorActive, StatusColor("active"))
	assert.Equal(t, ColorActive, StatusColor("Active"))
	assert.Equal(t, ColorPending, StatusColor("configuration pending"))
	assert.Equal(t, ColorDefault, StatusColor("inactive"))
	assert.Equal(t, ColorDefault, StatusColor(""))
}

func TestInstallationURL(t *testing.T) {
	assert.Equal(t, "https://jb.example.com/install", InstallationURL("https://jb.example.com/"))
	assert.Equal(t, "https://jb.example.com/install", InstallationURL("https://jb.example.com"))
}

func TestSelectBot(t *testing.T) {
	bots := []model.Bot{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	tests := []struct {
		name      string
		requested string
		previous  string
		want      string
		wantErr   error
	}{
		{"first by default", "", "", "a", nil},
		{"requested", "c", "b", "c", nil},
		{"previous survives refetch", "", "b", "b", nil},
		{"previous gone", "", "zz", "a", nil},
		{"requested missing", "zz", "", "", ErrBotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectBot(bots, tt.requested, tt.previous)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}

	_, err := SelectBot(nil, "", "")
	require.ErrorIs(t, err, ErrNoBots)
}

func TestPlayer_Exclusive(t *testing.T) {
	var p Player

	p.TogglePlay("m1")
	assert.Equal(t, "m1", p.PlayingID())

	p.TogglePlay("m2")
	assert.Equal(t, "m2", p.PlayingID(), "starting another pauses the first")
	assert.False(t, p.IsPlaying("m1"))

	p.TogglePlay("m2")
	assert.Empty(t, p.PlayingID())
	assert.False(t, p.IsPlaying(""))
}

func TestMessageBody(t *testing.T) {
	tests := []struct {
		name    string
		msg     model.Message
		playing bool
		want    string
		ok      bool
	}{
		{"text", model.Message{MessageType: model.MessageTypeText, MessageText: "hi"}, false, "hi", true},
		{"image", model.Message{MessageType: model.MessageTypeImage, MessageText: "caption"}, false, "caption", true},
		{"interactive", model.Message{MessageType: model.MessageTypeInteractive, MessageText: "Yes"}, false, "Yes", true},
		{"interactive empty", model.Message{MessageType: model.MessageTypeInteractive}, false, InteractiveFallback, true},
		{"audio", model.Message{MessageType: model.MessageTypeAudio, MediaURL: "https://a/1.ogg"}, false, "▶ audio https://a/1.ogg", true},
		{"audio playing", model.Message{MessageType: model.MessageTypeAudio, MediaURL: "https://a/1.ogg"}, true, "❚❚ playing https://a/1.ogg", true},
		{"unknown", model.Message{MessageType: "sticker", MessageText: "x"}, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MessageBody(tt.msg, tt.playing)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranscript(t *testing.T) {
	d := &model.SessionDetail{Turns: []model.Turn{
		{Messages: []model.Message{
			{ID: "1", MessageType: model.MessageTypeText, MessageText: "hello", IsUserSent: true},
			{ID: "2", MessageType: model.MessageTypeText, MessageText: "hi there"},
		}},
		{Messages: []model.Message{
			{ID: "3", MessageType: model.MessageTypeAudio, MediaURL: "u3"},
			{ID: "4", MessageType: "unsupported"},
		}},
	}}

	var p Player
	p.TogglePlay("3")

	out := Transcript(d, &p)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "hello")
	assert.Contains(t, lines[1], "hi there")
	assert.Contains(t, lines[2], "❚❚ playing u3")

	assert.Contains(t, Transcript(nil, nil), "No messages.")
}

func TestSummarize(t *testing.T) {
	bot := model.Bot{ID: "b1", Name: "Helper", Credits: 1250}
	entries := []model.SessionEntry{
		{Session: model.ChatSession{ID: "s1"}, User: model.ChatUser{Identifier: "+1"}},
		{Session: model.ChatSession{ID: "s2"}, User: model.ChatUser{Identifier: "+1"}},
		{Session: model.ChatSession{ID: "s3"}, User: model.ChatUser{Identifier: "+2"}},
	}
	details := []*model.SessionDetail{
		{ID: "s1", Turns: []model.Turn{{Messages: []model.Message{
			{MessageType: model.MessageTypeText, IsUserSent: true},
			{MessageType: model.MessageTypeText},
			{MessageType: model.MessageTypeInteractive, IsUserSent: true},
		}}}},
		nil,
		{ID: "s3", Turns: []model.Turn{{Messages: []model.Message{
			{MessageType: model.MessageTypeAudio},
		}}}},
	}

	s := Summarize(bot, entries, details)

	assert.Equal(t, 3, s.Sessions)
	assert.Equal(t, 2, s.ActiveUsers)
	assert.Equal(t, 4, s.Messages)
	assert.Equal(t, 2, s.UserMessages)
	assert.Equal(t, 2, s.BotMessages)
	assert.InDelta(t, 0.5, s.UserShare(), 1e-9)
	assert.Equal(t, map[model.MessageType]int{"text": 2, "interactive": 1, "audio": 1}, s.ByType)

	out := s.Render()
	for _, section := range []string{"Active Users", "Engagement", "Credits", "Response Type"} {
		assert.Contains(t, out, section)
	}

	assert.Contains(t, out, "1,250")
	assert.Zero(t, Summary{}.UserShare())
}

func TestTables(t *testing.T) {
	bots := []model.Bot{{
		ID:     "b1",
		Name:   "Helper",
		Status: model.BotStatusActive,
		Channels: []model.Channel{
			{ID: "c1", Name: "wa", Status: model.ChannelStatusActive},
			{ID: "c2", Name: "gone", Status: model.ChannelStatusDeleted},
		},
	}}

	out := BotsTable(bots)
	assert.Contains(t, out, "Helper")
	assert.Contains(t, out, "CREDITS")

	channels := ChannelsTable(&bots[0])
	assert.Contains(t, channels, "wa")
	assert.NotContains(t, channels, "gone")

	assert.Contains(t, BotsTable(nil), "No bots installed.")
	assert.Contains(t, ChannelsTable(&model.Bot{}), "No channels.")
	assert.Contains(t, BotDetail(&bots[0]), "Helper")

	sessions := SessionsTable([]model.SessionEntry{{Session: model.ChatSession{ID: "s1"}, User: model.ChatUser{Identifier: "+155"}}})
	assert.Contains(t, sessions, "+155")
}
