package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inovacc/jbconsole/internal/api"
	"github.com/inovacc/jbconsole/internal/cli"
	"github.com/inovacc/jbconsole/internal/console"
	"github.com/inovacc/jbconsole/internal/form"
	"github.com/inovacc/jbconsole/internal/model"
)

var botsCmd = &cobra.Command{
	Use:     "bots",
	Aliases: []string{"bot"},
	Short:   "List and manage bots",
	Long: `List, install and manage bots.

Examples:
  jbconsole bots list
  jbconsole bots install
  jbconsole bots configure <bot-id>
  jbconsole bots activate <bot-id> --set phone_number=+10000000000 --set whatsapp=KEY
  jbconsole bots delete <bot-id>`,
}

var botsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed bots",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		bots, err := a.client.ListBots(cmd.Context())
		if err != nil {
			return err
		}

		return printResult(cmd.OutOrStdout(), bots, func() string {
			return console.BotsTable(bots) + "\n" +
				"Installation URL: " + console.InstallationURL(a.cfg.ServerHost)
		})
	},
}

var botsShowCmd = &cobra.Command{
	Use:   "show [bot-id]",
	Short: "Show a bot and its channels",
	Args:  cobra.MaximumNArgs(1),
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

		return printResult(cmd.OutOrStdout(), bot, func() string {
			return console.BotDetail(bot) + "\n\n" + console.ChannelsTable(bot)
		})
	},
}

var botsInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install a new bot",
	Long: `Install a new bot from its flow code.

List fields (index_urls, required_credentials) take comma-separated values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		saved, err := runSettings(cmd, a, "Install Bot", form.Install{}, form.InstallSchema())
		if err != nil {
			return err
		}

		reportSaved(cmd, saved, "Bot installed.")

		return nil
	},
}

var botsConfigureCmd = &cobra.Command{
	Use:   "configure <bot-id>",
	Short: "Edit a bot's credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, bot, err := loadBot(cmd, args[0])
		if err != nil {
			return err
		}

		if len(bot.RequiredCredentials) == 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s has no credentials to configure.\n", bot.Name)

			return nil
		}

		saved, err := runSettings(cmd, a, bot.Name+" credentials", form.Credentials{BotID: bot.ID}, form.CredentialsSchema(*bot))
		if err != nil {
			return err
		}

		reportSaved(cmd, saved, "Credentials saved.")

		return nil
	},
}

var botsActivateCmd = &cobra.Command{
	Use:   "activate <bot-id>",
	Short: "Activate a bot on WhatsApp",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, bot, err := loadBot(cmd, args[0])
		if err != nil {
			return err
		}

		saved, err := runSettings(cmd, a, "Activate "+bot.Name, form.Activate{BotID: bot.ID}, form.ActivateSchema())
		if err != nil {
			return err
		}

		reportSaved(cmd, saved, "Bot activated.")

		return nil
	},
}

var botsPauseCmd = &cobra.Command{
	Use:   "pause <bot-id>",
	Short: "Pause a bot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		if err := a.client.PauseBot(cmd.Context(), args[0]); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Bot paused.")

		return nil
	},
}

var botsDeleteCmd = &cobra.Command{
	Use:   "delete <bot-id>",
	Short: "Delete a bot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, bot, err := loadBot(cmd, args[0])
		if err != nil {
			return err
		}

		if !confirmOrYes(cmd, fmt.Sprintf("Delete bot %q? [y/N]: ", bot.Name)) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")

			return nil
		}

		if err := a.client.DeleteBot(cmd.Context(), bot.ID); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Bot deleted.")

		return nil
	},
}

var botsUpdateCmd = &cobra.Command{
	Use:   "update <bot-id>",
	Short: "Update a bot's name, phone number, status or version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		update, err := botUpdateFromFlags(cmd)
		if err != nil {
			return err
		}

		if err := a.client.UpdateBot(cmd.Context(), args[0], update); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Bot updated.")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(botsCmd)
	botsCmd.AddCommand(botsListCmd, botsShowCmd, botsInstallCmd, botsConfigureCmd,
		botsActivateCmd, botsPauseCmd, botsDeleteCmd, botsUpdateCmd)

	addSetFlag(botsInstallCmd)
	addSetFlag(botsConfigureCmd)
	addSetFlag(botsActivateCmd)

	botsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	botsUpdateCmd.Flags().String("name", "", "New bot name")
	botsUpdateCmd.Flags().String("phone", "", "New phone number")
	botsUpdateCmd.Flags().String("status", "", "New status")
	botsUpdateCmd.Flags().String("version", "", "New version")
	botsUpdateCmd.Flags().StringSlice("channels", nil, "Channels (comma-separated)")
}

// botUpdateFromFlags sets only the fields whose flags were given.
func botUpdateFromFlags(cmd *cobra.Command) (model.BotUpdate, error) {
	var u model.BotUpdate

	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}

		v, _ := cmd.Flags().GetString(name)

		return &v
	}

	u.Name = str("name")
	u.PhoneNumber = str("phone")
	u.Status = str("status")
	u.Version = str("version")
	u.Channels, _ = cmd.Flags().GetStringSlice("channels")

	if u.IsEmpty() {
		return u, errors.New("nothing to update: pass at least one of --name, --phone, --status, --version, --channels")
	}

	return u, nil
}

// loadBot fetches the bot list and returns the bot with id.
func loadBot(cmd *cobra.Command, id string) (*app, *model.Bot, error) {
	a, err := loadAuthedApp(cmd)
	if err != nil {
		return nil, nil, err
	}

	bots, err := a.client.ListBotsV2(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	bot, err := console.SelectBot(bots, id, "")
	if err != nil {
		return nil, nil, err
	}

	return a, bot, nil
}

// pickBot resolves the bot a page shows. Without an id the user picks one
// interactively when there are several; otherwise the first bot is used.
func pickBot(bots []model.Bot, id string) (*model.Bot, error) {
	if id != "" || len(bots) < 2 || !isInteractive() || outputFormat.Structured() {
		return console.SelectBot(bots, id, "")
	}

	final, err := tea.NewProgram(cli.NewBotPicker(bots), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}

	picker, ok := final.(cli.BotPickerModel)
	if !ok {
		return nil, nil
	}

	return picker.Selected(), nil
}

func argOr(args []string, i int, fallback string) string {
	if i < len(args) {
		return args[i]
	}

	return fallback
}

// isServerSuccess reports whether a mutation answered status "success".
func isServerSuccess(resp model.StatusResponse, err error) (bool, error) {
	if err != nil {
		return false, err
	}

	return resp.OK(), nil
}

var _ form.Backend = (*api.Client)(nil)
