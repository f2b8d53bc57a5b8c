package console

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/inovacc/jbconsole/internal/model"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...)
}

// BotsTable renders the home page list.
func BotsTable(bots []model.Bot) string {
	if len(bots) == 0 {
		return mutedStyle.Render("No bots installed.")
	}

	statuses := make([]model.BotStatus, len(bots))
	t := newTable("ID", "NAME", "STATUS", "CREDITS", "CHANNELS", "CREATED", "MODIFIED")

	for i, b := range bots {
		statuses[i] = b.Status
		t.Row(
			b.ID,
			b.Name,
			string(b.Status),
			FormatCredits(b.Credits),
			strconv.Itoa(len(b.VisibleChannels())),
			FormatDate(b.CreatedAt),
			FormatDate(b.Modified),
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle.Padding(0, 1)
		}

		if col == 2 && row >= 0 && row < len(statuses) {
			return cellStyle.Foreground(StatusColor(statuses[row]))
		}

		return cellStyle
	})

	return t.Render()
}

// BotDetail renders the header of the bot settings page.
func BotDetail(b *model.Bot) string {
	status := lipgloss.NewStyle().Foreground(StatusColor(b.Status)).Render(string(b.Status))

	lines := []string{
		headerStyle.Render(b.Name),
		mutedStyle.Render("ID: ") + b.ID,
		mutedStyle.Render("Status: ") + status,
		mutedStyle.Render("Credits: ") + FormatCredits(b.Credits),
	}

	if b.PhoneNumber != "" {
		lines = append(lines, mutedStyle.Render("Phone: ")+b.PhoneNumber)
	}

	if b.Version != "" {
		lines = append(lines, mutedStyle.Render("Version: ")+b.Version)
	}

	lines = append(lines,
		mutedStyle.Render("Created: ")+FormatDate(b.CreatedAt),
		mutedStyle.Render("Modified: ")+FormatDate(b.Modified),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// ChannelsTable lists a bot's channels, leaving out deleted ones.
func ChannelsTable(b *model.Bot) string {
	channels := b.VisibleChannels()
	if len(channels) == 0 {
		return mutedStyle.Render("No channels.")
	}

	active := make([]bool, len(channels))
	t := newTable("ID", "NAME", "TYPE", "URL", "APP ID", "STATUS")

	for i, ch := range channels {
		active[i] = ch.IsActive()
		t.Row(ch.ID, ch.Name, ch.Type, ch.URL, ch.AppID, string(ch.Status))
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle.Padding(0, 1)
		}

		if col == 5 && row >= 0 && row < len(active) && active[row] {
			return cellStyle.Foreground(ColorActive)
		}

		return cellStyle
	})

	return t.Render()
}

// SessionsTable lists the chat sessions of a bot.
func SessionsTable(entries []model.SessionEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No chat sessions.")
	}

	t := newTable("SESSION", "USER", "DATE")
	for _, e := range entries {
		t.Row(e.Session.ID, e.User.Identifier, FormatSessionDate(e.Session.CreatedAt))
	}

	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle.Padding(0, 1)
		}

		return cellStyle
	})

	return t.Render()
}
