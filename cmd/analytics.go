package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inovacc/jbconsole/internal/console"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics [bot-id]",
	Short: "Summarize a bot's usage",
	Long: `Print active users, engagement, credits and the response type
breakdown of a bot, computed from its chat sessions.

Transcripts of the most recent sessions are loaded to count messages;
--sessions bounds how many (0 loads all).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		bots, err := a.client.ListBotsV2(cmd.Context())
		if err != nil {
			return err
		}

		bot, err := pickBot(bots, argOr(args, 0, ""))
		if err != nil || bot == nil {
			return err
		}

		sessions, err := a.client.ListChatSessions(cmd.Context(), bot.ID)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("sessions")

		details, err := loadTranscripts(cmd, a, bot.ID, sessions, limit)
		if err != nil {
			return err
		}

		summary := console.Summarize(*bot, sessions, details)

		return printResult(cmd.OutOrStdout(), summary, summary.Render)
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.Flags().Int("sessions", 20, "Number of session transcripts to load (0 = all)")
}
