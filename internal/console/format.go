// Package console renders the console pages (bots, bot settings, chats and
// analytics) as terminal text, and holds the small pieces of page state
// they share, such as bot selection and the exclusive audio player.
package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/inovacc/jbconsole/internal/model"
)

var (
	ColorActive  = lipgloss.Color("#009B39")
	ColorPending = lipgloss.Color("#F2BB4F")
	ColorDefault = lipgloss.Color("#000")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// StatusColor is the badge colour for a bot status.
func StatusColor(status model.BotStatus) lipgloss.Color {
	switch {
	case status.Is(model.BotStatusActive):
		return ColorActive
	case status.Is(model.BotStatusConfigurationPending):
		return ColorPending
	default:
		return ColorDefault
	}
}

// FormatDate renders t as "Do MMM YY", e.g. "3rd Feb 24".
func FormatDate(t model.Timestamp) string {
	if t.IsZero() {
		return "-"
	}

	return humanize.Ordinal(t.Day()) + t.Format(" Jan 06")
}

// FormatSessionDate renders a chat session date as DD/MM/YYYY.
func FormatSessionDate(t model.Timestamp) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("02/01/2006")
}

// FormatCredits renders a credit balance with thousands separators.
func FormatCredits(credits float64) string {
	return humanize.Commaf(credits)
}

// InstallationURL is where bots are installed from, shown on the home page.
func InstallationURL(host string) string {
	return strings.TrimRight(host, "/") + "/install"
}
