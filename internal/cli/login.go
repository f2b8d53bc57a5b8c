package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inovacc/jbconsole/internal/model"
)

type loginState int

const (
	stateInitializing loginState = iota
	stateWaitingForAuth
	stateComplete
	stateError
	stateCanceled
)

// AuthURLMsg reports the authorize page the provider opened.
type AuthURLMsg string

type loginResultMsg struct {
	err error
}

// LoginModel is the Bubbletea model shown while a provider signs in.
type LoginModel struct {
	ctx     context.Context
	method  model.AuthMethodKey
	login   func(ctx context.Context) error
	spinner spinner.Model
	authURL string
	state   loginState
	err     error
}

// NewLoginModel runs login when the program starts.
func NewLoginModel(ctx context.Context, method model.AuthMethodKey, login func(ctx context.Context) error) *LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &LoginModel{
		ctx:     ctx,
		method:  method,
		login:   login,
		spinner: s,
		state:   stateInitializing,
	}
}

func (m *LoginModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.run,
	)
}

func (m *LoginModel) run() tea.Msg {
	return loginResultMsg{err: m.login(m.ctx)}
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.state = stateCanceled

			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case AuthURLMsg:
		m.authURL = string(msg)
		m.state = stateWaitingForAuth

		return m, m.spinner.Tick
	case loginResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError

			return m, tea.Quit
		}

		m.state = stateComplete

		return m, tea.Quit
	}

	return m, nil
}

func (m *LoginModel) View() string {
	var sb strings.Builder

	switch m.state {
	case stateInitializing:
		sb.WriteString(titleStyle.Render("Signing in with "+m.method.String()) + "\n\n")
		sb.WriteString(m.spinner.View() + " Starting sign-in...\n")
	case stateWaitingForAuth:
		sb.WriteString(titleStyle.Render("Signing in with "+m.method.String()) + "\n\n")
		sb.WriteString("Open: " + urlStyle.Render(m.authURL) + "\n\n")
		sb.WriteString(m.spinner.View() + " Waiting for authorization...\n\n")
		sb.WriteString("Press q to cancel")
	case stateComplete:
		sb.WriteString(successStyle.Render("Signed in.") + "\n")
	case stateError:
		sb.WriteString(errorStyle.Render("Error") + "\n\n")
		sb.WriteString(m.err.Error() + "\n")
	}

	return sb.String()
}

// Err returns the login error, if any.
func (m *LoginModel) Err() error {
	return m.err
}

// Canceled reports whether the user quit before the flow finished.
func (m *LoginModel) Canceled() bool {
	return m.state == stateCanceled
}
