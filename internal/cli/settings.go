package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inovacc/jbconsole/internal/form"
)

const fmtField = " %s\n %s\n\n"

type inputKind int

const (
	kindLine inputKind = iota
	kindArea
	kindSelect
)

// settingsInput is the widget bound to one schema field.
type settingsInput struct {
	field  *form.Field
	kind   inputKind
	line   textinput.Model
	area   textarea.Model
	option int // -1 when nothing is selected
}

func newSettingsInput(mt form.ModelType, f *form.Field) settingsInput {
	in := settingsInput{field: f, option: -1}

	switch {
	case f.Selectable() || form.IsChannelSelector(mt, f.Name):
		in.kind = kindSelect

		for i, o := range f.Options {
			if o == f.String() {
				in.option = i
			}
		}
	case f.Type == form.TypeText && !f.Secret:
		in.kind = kindArea

		ta := textarea.New()
		ta.Placeholder = f.Placeholder
		ta.ShowLineNumbers = false
		ta.SetWidth(60)
		ta.SetHeight(3)
		ta.SetValue(f.String())
		ta.Blur()

		in.area = ta
	default:
		in.kind = kindLine

		t := textinput.New()
		t.Cursor.Style = cursorStyle
		t.CharLimit = 1024
		t.Placeholder = f.Placeholder
		t.SetValue(f.String())

		if f.Secret {
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '•'
		}

		in.line = t
	}

	return in
}

func (in *settingsInput) value() string {
	switch in.kind {
	case kindArea:
		return in.area.Value()
	case kindSelect:
		if in.option < 0 || in.option >= len(in.field.Options) {
			return ""
		}

		return in.field.Options[in.option]
	default:
		return in.line.Value()
	}
}

func (in *settingsInput) focus() tea.Cmd {
	switch in.kind {
	case kindArea:
		return in.area.Focus()
	case kindLine:
		in.line.PromptStyle = focusedStyle
		in.line.TextStyle = focusedStyle

		return in.line.Focus()
	}

	return nil
}

func (in *settingsInput) blur() {
	switch in.kind {
	case kindArea:
		in.area.Blur()
	case kindLine:
		in.line.Blur()
		in.line.PromptStyle = noStyle
		in.line.TextStyle = noStyle
	}
}

// cycle moves the selector, passing through "nothing selected".
func (in *settingsInput) cycle(delta int) {
	n := len(in.field.Options)
	if n == 0 {
		return
	}

	// positions -1..n-1 mapped onto 0..n
	pos := (in.option + 1 + delta + n + 1) % (n + 1)
	in.option = pos - 1
}

func (in *settingsInput) view(focused bool) string {
	switch in.kind {
	case kindArea:
		return in.area.View()
	case kindSelect:
		label := in.value()

		switch {
		case len(in.field.Options) == 0:
			label = blurredStyle.Render("no options available")
		case label == "":
			label = blurredStyle.Render(placeholderOr(in.field.Placeholder, "Select an option"))
		}

		if focused {
			return focusedStyle.Render("‹ ") + label + focusedStyle.Render(" ›")
		}

		return "  " + label
	default:
		return in.line.View()
	}
}

func placeholderOr(p, fallback string) string {
	if p == "" {
		return fallback
	}

	return p
}

type submitResultMsg struct{ err error }

// SettingsModel is the Bubbletea model for the settings form. The modal
// must be open; the model writes every widget back into it on save.
type SettingsModel struct {
	ctx        context.Context
	modal      *form.Modal
	inputs     []settingsInput
	focusIndex int
	submitting bool
	alert      string

	Saved    bool
	Canceled bool
}

// NewSettingsModel builds one widget per field of the open modal.
func NewSettingsModel(ctx context.Context, modal *form.Modal) (*SettingsModel, error) {
	schema, op := modal.Schema(), modal.Operation()
	if schema == nil || op == nil {
		return nil, form.ErrNotOpen
	}

	m := &SettingsModel{ctx: ctx, modal: modal}

	for _, f := range schema.Fields() {
		m.inputs = append(m.inputs, newSettingsInput(op.ModelType(), f))
	}

	if len(m.inputs) > 0 {
		m.inputs[0].focus()
	}

	return m, nil
}

func (m *SettingsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *SettingsModel) focused() *settingsInput {
	if m.focusIndex < 0 || m.focusIndex >= len(m.inputs) {
		return nil
	}

	return &m.inputs[m.focusIndex]
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		m.submitting = false

		if msg.err != nil {
			m.alert = m.modal.Alert()
			if m.alert == "" {
				m.alert = form.Alert(msg.err)
			}

			return m, nil
		}

		m.Saved = true

		return m, tea.Quit
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			m.Canceled = true
			m.modal.Close()

			return m, tea.Quit

		case "ctrl+s":
			return m, m.submit()

		case "left", "right":
			if in := m.focused(); in != nil && in.kind == kindSelect {
				if msg.String() == "left" {
					in.cycle(-1)
				} else {
					in.cycle(1)
				}

				return m, nil
			}

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				return m, m.submit()
			}

			// text areas keep enter and vertical movement for themselves
			if in := m.focused(); in != nil && in.kind == kindArea && (s == "enter" || s == "up" || s == "down") {
				break
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].focus()

					continue
				}

				m.inputs[i].blur()
			}

			return m, tea.Batch(cmds...)
		}
	}

	return m, m.updateInputs(msg)
}

func (m *SettingsModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))

	// blurred widgets ignore key input
	for i := range m.inputs {
		switch m.inputs[i].kind {
		case kindLine:
			m.inputs[i].line, cmds[i] = m.inputs[i].line.Update(msg)
		case kindArea:
			m.inputs[i].area, cmds[i] = m.inputs[i].area.Update(msg)
		}
	}

	return tea.Batch(cmds...)
}

// submit copies the widgets into the modal and submits it in the background.
func (m *SettingsModel) submit() tea.Cmd {
	for i := range m.inputs {
		in := &m.inputs[i]
		if err := m.modal.Update(in.field.Name, in.value()); err != nil {
			m.alert = err.Error()

			return nil
		}
	}

	m.submitting = true
	m.alert = ""

	ctx, modal := m.ctx, m.modal

	return func() tea.Msg {
		return submitResultMsg{err: modal.Submit(ctx)}
	}
}

// Alert is the message shown above the form, if any.
func (m *SettingsModel) Alert() string {
	return m.alert
}

func (m *SettingsModel) View() string {
	if m.Saved {
		return successStyle.Render("\n  ✓ Saved\n\n")
	}

	if m.Canceled {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.modal.Title()) + "\n")
	sb.WriteString(blurredStyle.Render("Edit the fields below and press Tab to navigate") + "\n\n")

	if m.alert != "" {
		sb.WriteString(alertStyle.Render(m.alert) + "\n\n")
	}

	for i := range m.inputs {
		in := &m.inputs[i]

		label := in.field.Name
		if in.field.Required {
			label += " *"
		}

		style := blurredStyle
		if i == m.focusIndex {
			style = focusedStyle
		}

		sb.WriteString(fmt.Sprintf(fmtField, style.Render(label+":"), in.view(i == m.focusIndex)))
	}

	button := &blurredButton
	if m.focusIndex == len(m.inputs) {
		button = &focusedButton
	}

	if m.submitting {
		sb.WriteString("\n " + blurredStyle.Render("Saving...") + "\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("\n %s\n\n", *button))
	}

	sb.WriteString(helpStyle.Render(" tab/shift+tab: navigate • ←/→: choose • ctrl+s: save • esc: cancel"))

	return sb.String()
}
