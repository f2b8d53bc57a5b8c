package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inovacc/jbconsole/internal/console"
	"github.com/inovacc/jbconsole/internal/model"
)

const defaultTranscriptHeight = 20

type mediaOpenedMsg struct{ err error }

// TranscriptModel shows a chat session one message per line. Enter on an
// audio message toggles it; only one message plays at a time.
type TranscriptModel struct {
	title    string
	messages []model.Message
	cursor   int
	offset   int
	height   int
	player   console.Player
	open     func(url string) error
	err      error
}

// NewTranscriptModel keeps the renderable messages of d. open, when set,
// receives the media URL of an audio message that starts playing.
func NewTranscriptModel(title string, d *model.SessionDetail, open func(url string) error) *TranscriptModel {
	m := &TranscriptModel{title: title, open: open, height: defaultTranscriptHeight}

	if d != nil {
		for _, msg := range d.Messages() {
			if _, ok := console.MessageBody(msg, false); ok {
				m.messages = append(m.messages, msg)
			}
		}
	}

	return m
}

func (m *TranscriptModel) Init() tea.Cmd {
	return nil
}

func (m *TranscriptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Height > 4 {
			m.height = msg.Height - 4
		}
	case mediaOpenedMsg:
		m.err = msg.err
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.messages)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m, m.toggle()
		}
	}

	m.scroll()

	return m, nil
}

func (m *TranscriptModel) toggle() tea.Cmd {
	if m.cursor >= len(m.messages) {
		return nil
	}

	msg := m.messages[m.cursor]
	if msg.MessageType != model.MessageTypeAudio {
		return nil
	}

	m.player.TogglePlay(msg.ID)

	if m.open == nil || !m.player.IsPlaying(msg.ID) || msg.MediaURL == "" {
		return nil
	}

	open, url := m.open, msg.MediaURL

	return func() tea.Msg {
		return mediaOpenedMsg{err: open(url)}
	}
}

func (m *TranscriptModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}

	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// PlayingID returns the id of the playing audio message.
func (m *TranscriptModel) PlayingID() string {
	return m.player.PlayingID()
}

func (m *TranscriptModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title) + "\n\n")

	if len(m.messages) == 0 {
		sb.WriteString(blurredStyle.Render("No messages.") + "\n")
	}

	end := min(m.offset+m.height, len(m.messages))
	for i := m.offset; i < end; i++ {
		msg := m.messages[i]
		line, _ := console.TranscriptLine(msg, m.player.IsPlaying(msg.ID))

		if i == m.cursor {
			sb.WriteString(focusedStyle.Render("> ") + line + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}

	if m.err != nil {
		sb.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	sb.WriteString("\n" + helpStyle.Render(" ↑/↓: move • enter: play/pause audio • q: quit"))

	return sb.String()
}
