package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/inovacc/jbconsole/internal/cli"
	"github.com/inovacc/jbconsole/internal/console"
	"github.com/inovacc/jbconsole/internal/model"
)

var errNoSessions = errors.New("no chat sessions")

var chatsCmd = &cobra.Command{
	Use:     "chats",
	Aliases: []string{"chat"},
	Short:   "Read chat transcripts",
	Long: `List a bot's chat sessions and read their transcripts.

Examples:
  jbconsole chats sessions <bot-id>
  jbconsole chats show <bot-id>               # first session
  jbconsole chats show <bot-id> <session-id>`,
}

var chatsSessionsCmd = &cobra.Command{
	Use:   "sessions <bot-id>",
	Short: "List the chat sessions of a bot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		sessions, err := a.client.ListChatSessions(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printResult(cmd.OutOrStdout(), sessions, func() string {
			return console.SessionsTable(sessions)
		})
	},
}

var chatsShowCmd = &cobra.Command{
	Use:   "show <bot-id> [session-id]",
	Short: "Show a chat transcript",
	Long: `Show the messages of a chat session, by default the first one.

In a terminal the transcript opens in a viewer where enter plays or
pauses an audio message; only one plays at a time. --plain prints it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		botID := args[0]

		sessionID, err := resolveSession(cmd, a, botID, argOr(args, 1, ""))
		if err != nil {
			return err
		}

		detail, err := a.client.GetSession(cmd.Context(), botID, sessionID)
		if err != nil {
			return err
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain || outputFormat.Structured() || !isInteractive() {
			return printResult(cmd.OutOrStdout(), detail, func() string {
				return console.Transcript(detail, nil)
			})
		}

		viewer := cli.NewTranscriptModel(fmt.Sprintf("Session %s", sessionID), detail, browser.OpenURL)
		_, err = tea.NewProgram(viewer, tea.WithAltScreen()).Run()

		return err
	},
}

func init() {
	rootCmd.AddCommand(chatsCmd)
	chatsCmd.AddCommand(chatsSessionsCmd, chatsShowCmd)

	chatsShowCmd.Flags().Bool("plain", false, "Print the transcript instead of opening the viewer")
}

// resolveSession returns sessionID, or the bot's first session when empty.
func resolveSession(cmd *cobra.Command, a *app, botID, sessionID string) (string, error) {
	if sessionID != "" {
		return sessionID, nil
	}

	sessions, err := a.client.ListChatSessions(cmd.Context(), botID)
	if err != nil {
		return "", err
	}

	if len(sessions) == 0 {
		return "", fmt.Errorf("%w for bot %s", errNoSessions, botID)
	}

	return sessions[0].Session.ID, nil
}

// loadTranscripts fetches up to limit session transcripts in list order.
func loadTranscripts(cmd *cobra.Command, a *app, botID string, sessions []model.SessionEntry, limit int) ([]*model.SessionDetail, error) {
	if limit <= 0 || limit > len(sessions) {
		limit = len(sessions)
	}

	details := make([]*model.SessionDetail, 0, limit)

	for _, e := range sessions[:limit] {
		d, err := a.client.GetSession(cmd.Context(), botID, e.Session.ID)
		if err != nil {
			return nil, fmt.Errorf("loading session %s: %w", e.Session.ID, err)
		}

		details = append(details, d)
	}

	return details, nil
}
