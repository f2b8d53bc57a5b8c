// Package cli provides the terminal user interface components for jbconsole.
//
// The package uses [Bubbletea] for building interactive terminal UIs and
// [Lipgloss] for styling. All UI components follow the standard Bubbletea
// Model-View-Update (MVU) architecture.
//
// # Components
//
//   - Settings: the settings form, driving a [form.Modal]
//   - Login: spinner shown while a provider's browser flow runs
//   - BotPicker: filterable list for choosing a bot
//   - Transcript: chat transcript viewer with an exclusive audio player
//
// # Styling
//
// Common styles are defined as package-level variables in styles.go.
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
