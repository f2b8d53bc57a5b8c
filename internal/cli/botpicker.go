package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inovacc/jbconsole/internal/console"
	"github.com/inovacc/jbconsole/internal/model"
)

type botItem struct {
	bot model.Bot
}

func (i botItem) Title() string {
	return i.bot.Name
}

func (i botItem) Description() string {
	return fmt.Sprintf("%s | %s | %s credits", i.bot.ID, i.bot.Status, console.FormatCredits(i.bot.Credits))
}

func (i botItem) FilterValue() string {
	return i.bot.Name
}

// BotPickerModel lets the user choose a bot.
type BotPickerModel struct {
	list     list.Model
	selected *model.Bot
	quitting bool
}

func NewBotPicker(bots []model.Bot) BotPickerModel {
	items := make([]list.Item, len(bots))
	for i, b := range bots {
		items[i] = botItem{bot: b}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Bots"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return BotPickerModel{list: l}
}

func (m BotPickerModel) Init() tea.Cmd {
	return nil
}

func (m BotPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true

			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(botItem); ok {
				m.selected = &i.bot
			}

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m BotPickerModel) View() string {
	if m.quitting {
		return ""
	}

	return docStyle.Render(m.list.View())
}

// Selected returns the chosen bot, or nil when the picker was dismissed.
func (m BotPickerModel) Selected() *model.Bot {
	return m.selected
}
