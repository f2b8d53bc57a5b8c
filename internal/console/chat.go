package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inovacc/jbconsole/internal/model"
)

// InteractiveFallback is shown for an interactive message without text.
const InteractiveFallback = "User selected from the menu (Interactive Msg)"

var (
	userStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	botStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Player tracks the single audio message currently playing.
type Player struct {
	playingID string
}

// TogglePlay starts id, stopping whatever played before, or stops id when
// it is the one playing.
func (p *Player) TogglePlay(id string) {
	if p.playingID == id {
		p.playingID = ""

		return
	}

	p.playingID = id
}

// PlayingID returns the playing message id, or "" when nothing plays.
func (p *Player) PlayingID() string {
	return p.playingID
}

func (p *Player) IsPlaying(id string) bool {
	return id != "" && p.playingID == id
}

// MessageBody returns what a transcript shows for m. ok is false for
// message types the transcript skips.
func MessageBody(m model.Message, playing bool) (body string, ok bool) {
	switch m.MessageType {
	case model.MessageTypeText, model.MessageTypeImage:
		return m.MessageText, true
	case model.MessageTypeInteractive:
		if m.MessageText == "" {
			return InteractiveFallback, true
		}

		return m.MessageText, true
	case model.MessageTypeAudio:
		return AudioLine(m, playing), true
	default:
		return "", false
	}
}

// AudioLine is the terminal rendition of the audio player.
func AudioLine(m model.Message, playing bool) string {
	if playing {
		return fmt.Sprintf("❚❚ playing %s", m.MediaURL)
	}

	return fmt.Sprintf("▶ audio %s", m.MediaURL)
}

// TranscriptLine renders one message with its sender.
func TranscriptLine(m model.Message, playing bool) (string, bool) {
	body, ok := MessageBody(m, playing)
	if !ok {
		return "", false
	}

	if m.IsUserSent {
		return userStyle.Render("user ›") + " " + body, true
	}

	return botStyle.Render("bot  ›") + " " + body, true
}

// Transcript renders every message of a session in turn order.
func Transcript(d *model.SessionDetail, player *Player) string {
	if d == nil {
		return mutedStyle.Render("No messages.")
	}

	var sb strings.Builder

	for _, m := range d.Messages() {
		line, ok := TranscriptLine(m, player != nil && player.IsPlaying(m.ID))
		if !ok {
			continue
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return mutedStyle.Render("No messages.")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
