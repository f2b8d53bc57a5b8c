package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/inovacc/jbconsole/internal/application"
	"github.com/inovacc/jbconsole/internal/encoding"
)

var (
	verbose      bool
	jsonLogs     bool
	serverHost   string
	envFile      string
	outputFormat = encoding.FormatTable
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Administration console for JB Manager bots",
	Long: `jbconsole manages conversational bots hosted on a JB Manager server.

Sign in with Microsoft, Google or GitHub, then list and install bots,
edit their credentials, manage their channels, read chat transcripts
and print usage summaries.

Configuration is read from config.toml in the application directory,
a .env file and JB_* environment variables.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeApp()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	closeApp()
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&jsonLogs, "json", false, "Write logs as JSON")
	pf.StringVar(&serverHost, "server", "", "JB Manager API host (overrides JB_SERVER_HOST)")
	pf.StringVar(&envFile, "env-file", "", "Load environment variables from this file instead of .env")
	pf.VarP(&outputFormat, "output", "o", "Output format: table, json, yaml")
}
