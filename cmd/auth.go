package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inovacc/jbconsole/internal/application"
	"github.com/inovacc/jbconsole/internal/auth"
	"github.com/inovacc/jbconsole/internal/cli"
	"github.com/inovacc/jbconsole/internal/console"
	"github.com/inovacc/jbconsole/internal/model"
	"github.com/inovacc/jbconsole/internal/store"
)

// authMethodValue is a pflag.Value accepting ms, google or github.
type authMethodValue struct {
	key model.AuthMethodKey
}

func (v *authMethodValue) String() string {
	return strings.ToLower(v.key.String())
}

func (v *authMethodValue) Set(s string) error {
	key, ok := model.ParseAuthMethodKey(s)
	if !ok {
		return fmt.Errorf("%w: %q (ms, google, github)", auth.ErrUnknownMethod, s)
	}

	v.key = key

	return nil
}

func (v *authMethodValue) Type() string {
	return "method"
}

var _ pflag.Value = (*authMethodValue)(nil)

var loginMethod authMethodValue

var loginCmd = &cobra.Command{
	Use:   "login [ms|google|github]",
	Short: "Sign in with an identity provider",
	Long: `Sign in with Microsoft, Google or GitHub.

The provider's authorize page opens in your browser and a local listener
receives the redirect. When the browser cannot reach this machine, copy
the "code" parameter from the redirect URL and pass it with --code.

Examples:
  jbconsole login github
  jbconsole login --method google
  jbconsole login ms --code 0.AXoA...`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"ms", "google", "github"},
	RunE:      runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the cached session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		if err := a.session.LogOut(cmd.Context()); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")

		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAuthedApp(cmd)
		if err != nil {
			return err
		}

		return printWhoami(cmd, a)
	},
}

// statusReport is what the status command prints.
type statusReport struct {
	Server          string `json:"server"`
	InstallationURL string `json:"installation_url"`
	Store           string `json:"store"`
	Method          string `json:"method,omitempty"`
	Authenticated   bool   `json:"authenticated"`
	User            string `json:"user,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the server and sign-in state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		r := statusReport{
			Server:          a.cfg.ServerHost,
			InstallationURL: console.InstallationURL(a.cfg.ServerHost),
			Store:           a.cfg.Store,
			Authenticated:   a.session.IsAuthenticated(),
		}

		if method, ok := a.session.Method(); ok {
			r.Method = method.String()
		}

		if r.Authenticated {
			if u, err := a.session.GetUser(cmd.Context()); err == nil {
				r.User = u.Username
			}
		}

		return printResult(cmd.OutOrStdout(), r, func() string {
			items := map[string]string{
				"Server":           r.Server,
				"Installation URL": r.InstallationURL,
				"Store":            r.Store,
				"Signed in":        fmt.Sprint(r.Authenticated),
				"Method":           r.Method,
				"User":             r.User,
			}

			return infoBox(application.AppName+" status", items,
				[]string{"Server", "Installation URL", "Store", "Signed in", "Method", "User"})
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(statusCmd)

	loginCmd.Flags().VarP(&loginMethod, "method", "m", "Identity provider: ms, google, github")
	loginCmd.Flags().String("code", "", "Authorization code from the provider redirect")
}

func runLogin(cmd *cobra.Command, args []string) error {
	method := loginMethod

	if len(args) == 1 {
		if err := method.Set(args[0]); err != nil {
			return err
		}
	}

	if method.key == "" {
		return errors.New("choose a provider: ms, google or github")
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	code, _ := cmd.Flags().GetString("code")

	login := func(ctx context.Context) error {
		return a.session.LogIn(ctx, method.key, code)
	}

	if code != "" || !isInteractive() {
		if err := login(cmd.Context()); err != nil {
			return err
		}

		return printWhoami(cmd, a)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := cli.NewLoginModel(ctx, method.key, login)
	p := tea.NewProgram(m)

	prev := authURLHandler
	authURLHandler = func(u string) { p.Send(cli.AuthURLMsg(u)) }

	defer func() { authURLHandler = prev }()

	if _, err := p.Run(); err != nil {
		return err
	}

	if m.Canceled() {
		return errCancelled
	}

	if err := m.Err(); err != nil {
		return err
	}

	return printWhoami(cmd, a)
}

func printWhoami(cmd *cobra.Command, a *app) error {
	u, err := a.session.GetUser(cmd.Context())
	if err != nil {
		return err
	}

	method, _ := a.session.Method()

	secret := "not issued"
	if u.Secret != "" {
		secret = "issued (see 'secret')"
	}

	// the secret only leaves through the secret command
	shown := *u
	shown.Secret = ""

	return printResult(cmd.OutOrStdout(), shown, func() string {
		return infoBox("Signed in", map[string]string{
			"User":   u.Username,
			"Email":  u.Email,
			"ID":     u.ID,
			"Method": method.String(),
			"Secret": secret,
		}, []string{"User", "Email", "ID", "Method", "Secret"})
	})
}

// authSummary is used by config show.
func authSummary(s store.Store) string {
	method, err := store.GetOptional(s, store.KeyAuthMethod)
	if err != nil || method == "" {
		return "none"
	}

	return method
}
