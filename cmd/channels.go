package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inovacc/jbconsole/internal/console"
	"github.com/inovacc/jbconsole/internal/form"
	"github.com/inovacc/jbconsole/internal/model"
)

var channelsCmd = &cobra.Command{
	Use:     "channels",
	Aliases: []string{"channel"},
	Short:   "Manage a bot's channels",
	Long: `List, add, update, toggle and delete the messaging channels of a bot.

Examples:
  jbconsole channels list <bot-id>
  jbconsole channels add <bot-id>
  jbconsole channels toggle <bot-id> <channel-id>
  jbconsole channels delete <bot-id> <channel-id>`,
}

var channelsListCmd = &cobra.Command{
	Use:   "list [bot-id]",
	Short: "List the channels of a bot",
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

		return printResult(cmd.OutOrStdout(), bot.VisibleChannels(), func() string {
			return console.ChannelsTable(bot)
		})
	},
}

var channelsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the channel types the server supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		types, err := a.client.ListChannelTypes(cmd.Context())
		if err != nil {
			return err
		}

		return printResult(cmd.OutOrStdout(), types, func() string {
			return strings.Join(types, "\n")
		})
	},
}

var channelsAddCmd = &cobra.Command{
	Use:   "add <bot-id>",
	Short: "Add a channel to a bot",
	Long: `Add a channel to a bot.

The type is chosen from the channel types the server supports. --legacy
uses the older form (Name, Provider, API URL, Identifier, Key), which
creates the channel inactive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, bot, err := loadBot(cmd, args[0])
		if err != nil {
			return err
		}

		types, err := a.client.ListChannelTypes(cmd.Context())
		if err != nil {
			return err
		}

		legacy, _ := cmd.Flags().GetBool("legacy")

		schema := form.ChannelInstallSchema(types)
		if legacy {
			schema = form.AddChannelSchema(types)
		}

		saved, err := runSettings(cmd, a, "Add channel to "+bot.Name, form.AddChannel{BotID: bot.ID, Legacy: legacy}, schema)
		if err != nil || !saved {
			return err
		}

		return refreshChannels(cmd, a, bot.ID, "Channel added.")
	},
}

var channelsUpdateCmd = &cobra.Command{
	Use:   "update <bot-id> <channel-id>",
	Short: "Edit a channel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, bot, err := loadBot(cmd, args[0])
		if err != nil {
			return err
		}

		ch, err := findChannel(bot, args[1])
		if err != nil {
			return err
		}

		saved, err := runSettings(cmd, a, "Update "+ch.Name, form.UpdateChannel{ChannelID: ch.ID}, form.ChannelUpdateSchema(*ch))
		if err != nil || !saved {
			return err
		}

		return refreshChannels(cmd, a, bot.ID, "Channel updated.")
	},
}

var channelsDeleteCmd = &cobra.Command{
	Use:   "delete <bot-id> <channel-id>",
	Short: "Delete a channel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, bot, err := loadBot(cmd, args[0])
		if err != nil {
			return err
		}

		ch, err := findChannel(bot, args[1])
		if err != nil {
			return err
		}

		if !confirmOrYes(cmd, fmt.Sprintf("Delete channel %q? [y/N]: ", ch.Name)) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")

			return nil
		}

		ok, err := isServerSuccess(a.client.DeleteChannel(cmd.Context(), ch.ID))
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("server did not confirm deleting channel %s", ch.ID)
		}

		return refreshChannels(cmd, a, bot.ID, "Channel deleted.")
	},
}

var channelsToggleCmd = &cobra.Command{
	Use:   "toggle <bot-id> <channel-id>",
	Short: "Activate an inactive channel or deactivate an active one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		bots, err := a.client.ListBotsV2(cmd.Context())
		if err != nil {
			return err
		}

		bots, changed, err := toggleChannel(cmd, a, bots, args[0], args[1])
		if err != nil {
			return err
		}

		bot := model.FindBot(bots, args[0])

		return printResult(cmd.OutOrStdout(), bot.VisibleChannels(), func() string {
			msg := "Server did not confirm the change."
			if changed {
				msg = "Channel status updated."
			}

			return msg + "\n" + console.ChannelsTable(bot)
		})
	},
}

func init() {
	rootCmd.AddCommand(channelsCmd)
	channelsCmd.AddCommand(channelsListCmd, channelsTypesCmd, channelsAddCmd,
		channelsUpdateCmd, channelsDeleteCmd, channelsToggleCmd)

	addSetFlag(channelsAddCmd)
	addSetFlag(channelsUpdateCmd)

	channelsAddCmd.Flags().Bool("legacy", false, "Use the legacy add-channel form")
	channelsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
}

// toggleChannel flips the channel's status on the server. On "success" the
// returned list carries the intended status for that channel only; the
// server's reply is not re-read.
func toggleChannel(cmd *cobra.Command, a *app, bots []model.Bot, botID, channelID string) ([]model.Bot, bool, error) {
	bot, err := console.SelectBot(bots, botID, "")
	if err != nil {
		return bots, false, err
	}

	ch, err := findChannel(bot, channelID)
	if err != nil {
		return bots, false, err
	}

	activate := !ch.IsActive()

	ok, err := isServerSuccess(a.client.SetChannelActive(cmd.Context(), ch.ID, activate))
	if err != nil || !ok {
		return bots, false, err
	}

	status := model.ChannelStatusInactive
	if activate {
		status = model.ChannelStatusActive
	}

	return model.SetChannelStatus(bots, bot.ID, ch.ID, status), true, nil
}

func findChannel(bot *model.Bot, id string) (*model.Channel, error) {
	for i := range bot.Channels {
		if bot.Channels[i].ID == id && bot.Channels[i].Status != model.ChannelStatusDeleted {
			return &bot.Channels[i], nil
		}
	}

	return nil, fmt.Errorf("channel %s not found on bot %s", id, bot.ID)
}

// refreshChannels refetches the bots and prints the bot's channels.
func refreshChannels(cmd *cobra.Command, a *app, botID, msg string) error {
	bots, err := a.client.ListBotsV2(cmd.Context())
	if err != nil {
		return err
	}

	bot, err := console.SelectBot(bots, botID, "")
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), bot.VisibleChannels(), func() string {
		return msg + "\n" + console.ChannelsTable(bot)
	})
}
