package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inovacc/jbconsole/internal/application"
	"github.com/inovacc/jbconsole/internal/params"
	"github.com/inovacc/jbconsole/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after config.toml, .env, JB_* variables and
flags are applied. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		masked := cfg.Masked()

		configPath, err := application.ConfigFilePath()
		if err != nil {
			return err
		}

		storePath, err := params.StorePath(cfg.Store)
		if err != nil {
			return err
		}

		method := "none"
		if s, err := store.Open(cfg.Store); err == nil {
			method = authSummary(s)
			_ = s.Close()
		}

		return printResult(cmd.OutOrStdout(), masked, func() string {
			items := map[string]string{
				"Config file":    configPath,
				"Server":         masked.ServerHost,
				"Store":          fmt.Sprintf("%s (%s)", masked.Store, storePath),
				"Redirect URI":   masked.RedirectURI,
				"MS client":      masked.MS.ClientID,
				"MS tenant":      masked.MS.TenantID,
				"MS scope":       masked.MS.ScopeURI,
				"Google client":  masked.Google.ClientID,
				"Google secret":  masked.Google.ClientSecret,
				"GitHub client":  masked.GitHub.ClientID,
				"GitHub host":    masked.GitHub.Host,
				"Signed in with": method,
			}

			return infoBox("Configuration", items, []string{
				"Config file", "Server", "Store", "Redirect URI",
				"MS client", "MS tenant", "MS scope",
				"Google client", "Google secret",
				"GitHub client", "GitHub host", "Signed in with",
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
