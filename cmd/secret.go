package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Copy your JB Manager secret to the clipboard",
	Long: `Copy the JB Manager secret issued to the signed-in user to the
clipboard. The secret authenticates bot installs. Use --print to write it
to stdout instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		secret, err := a.userSecret(cmd.Context())
		if err != nil {
			return err
		}

		if secret == "" {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No JB Secret Found")

			return nil
		}

		if show, _ := cmd.Flags().GetBool("print"); show {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), secret)

			return nil
		}

		if err := clipboard.WriteAll(secret); err != nil {
			return fmt.Errorf("copying to clipboard: %w (use --print)", err)
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Secret Copied")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.Flags().Bool("print", false, "Print the secret instead of copying it")
}
