package console

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inovacc/jbconsole/internal/model"
)

// Summary is the analytics page for one bot.
type Summary struct {
	BotID        string                    `json:"bot_id"`
	BotName      string                    `json:"bot_name"`
	Credits      float64                   `json:"credits"`
	Sessions     int                       `json:"sessions"`
	ActiveUsers  int                       `json:"active_users"`
	Messages     int                       `json:"messages"`
	UserMessages int                       `json:"user_messages"`
	BotMessages  int                       `json:"bot_messages"`
	ByType       map[model.MessageType]int `json:"by_type"`
}

// Summarize counts sessions, distinct users and messages. details may hold
// fewer sessions than entries when only some transcripts were loaded.
func Summarize(bot model.Bot, entries []model.SessionEntry, details []*model.SessionDetail) Summary {
	s := Summary{
		BotID:    bot.ID,
		BotName:  bot.Name,
		Credits:  bot.Credits,
		Sessions: len(entries),
		ByType:   make(map[model.MessageType]int),
	}

	users := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.User.Identifier != "" {
			users[e.User.Identifier] = struct{}{}
		}
	}

	s.ActiveUsers = len(users)

	for _, d := range details {
		if d == nil {
			continue
		}

		for _, m := range d.Messages() {
			s.Messages++
			s.ByType[m.MessageType]++

			if m.IsUserSent {
				s.UserMessages++
			} else {
				s.BotMessages++
			}
		}
	}

	return s
}

// UserShare is the fraction of messages sent by users, 0 when empty.
func (s Summary) UserShare() float64 {
	if s.Messages == 0 {
		return 0
	}

	return float64(s.UserMessages) / float64(s.Messages)
}

// Render prints the summary in the sections of the analytics page.
func (s Summary) Render() string {
	var sb strings.Builder

	section := func(title string) {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(headerStyle.Render(title))
		sb.WriteString("\n")
	}

	line := func(label, value string) {
		_, _ = fmt.Fprintf(&sb, "  %s %s\n", mutedStyle.Render(label+":"), value)
	}

	section("Active Users")
	line("Sessions", fmt.Sprint(s.Sessions))
	line("Distinct users", fmt.Sprint(s.ActiveUsers))

	section("Engagement")
	line("Messages", fmt.Sprint(s.Messages))
	line("From users", fmt.Sprintf("%d (%.0f%%)", s.UserMessages, s.UserShare()*100))
	line("From bot", fmt.Sprint(s.BotMessages))

	section("Credits")
	line(s.BotName, FormatCredits(s.Credits))

	section("Response Type")

	if len(s.ByType) == 0 {
		sb.WriteString("  " + mutedStyle.Render("no messages") + "\n")
	}

	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, string(t))
	}

	slices.Sort(types)

	for _, t := range types {
		n := s.ByType[model.MessageType(t)]
		line(t, fmt.Sprintf("%d %s", n, bar(n, s.Messages, 20)))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func bar(n, total, width int) string {
	if total == 0 {
		return ""
	}

	filled := n * width / total

	return lipgloss.NewStyle().Foreground(ColorActive).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}
