package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/inovacc/jbconsole/internal/api"
	"github.com/inovacc/jbconsole/internal/application"
	"github.com/inovacc/jbconsole/internal/auth"
	"github.com/inovacc/jbconsole/internal/config"
	"github.com/inovacc/jbconsole/internal/form"
	"github.com/inovacc/jbconsole/internal/params"
	"github.com/inovacc/jbconsole/internal/store"
)

const masterKeyFile = "master.key"

// app is the wired console: configuration, local store, API client and the
// sign-in session. It is built once per process by loadApp.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    store.Store
	vault    *store.Vault
	client   *api.Client
	registry *auth.Registry
	session  *auth.Session
}

var (
	current *app

	// authURLHandler shows the authorize page URL; login swaps it for the
	// spinner while the interactive flow runs
	authURLHandler = func(u string) {
		_, _ = fmt.Fprintf(os.Stderr, "Open this URL to sign in:\n  %s\n", u)
	}
)

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	if jsonLogs {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func loadConfig() (*config.Config, error) {
	path, err := application.ConfigFilePath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.LoadOptions{ConfigFile: path, EnvFile: envFile})
	if err != nil {
		return nil, err
	}

	if serverHost != "" {
		cfg.ServerHost = strings.TrimRight(serverHost, "/")
	}

	return cfg, nil
}

func openBrowser(logger *slog.Logger) func(string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	return func(u string) error {
		authURLHandler(u)

		// headless machines still get the URL printed above
		if err := browser.OpenURL(u); err != nil {
			logger.Debug("could not open browser", "error", err)
		}

		return nil
	}
}

func loadApp(cmd *cobra.Command) (*app, error) {
	if current != nil {
		return current, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger()

	s, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	dir, err := params.AppdataDir()
	if err != nil {
		_ = s.Close()

		return nil, err
	}

	key, err := store.LoadOrCreateMasterKey(filepath.Join(dir, masterKeyFile))
	if err != nil {
		_ = s.Close()

		return nil, err
	}

	vault := store.NewVault(s, key)
	base := api.NewClient(cfg.ServerHost, api.WithLogger(logger))

	registry := auth.NewRegistry(auth.Deps{
		Config:      cfg,
		Vault:       vault,
		Backend:     base,
		OpenBrowser: openBrowser(logger),
		Logger:      logger,
	})

	session := auth.NewSession(s, registry, logger)
	ctx := cmd.Context()

	client := base.With(
		api.WithTokenSource(session),
		api.WithLoginMethod(session.AuthMethodType),
		api.WithUnauthorizedHandler(func() {
			logger.Warn("server rejected the session, signing out")

			if err := session.LogOut(context.WithoutCancel(ctx)); err != nil {
				logger.Error("sign out failed", "error", err)
			}
		}),
	)

	if err := session.Init(ctx); err != nil {
		logger.Warn("could not restore the previous session", "error", err)
	}

	current = &app{
		cfg:      cfg,
		logger:   logger,
		store:    s,
		vault:    vault,
		client:   client,
		registry: registry,
		session:  session,
	}

	return current, nil
}

func closeApp() {
	if current == nil {
		return
	}

	if err := current.store.Close(); err != nil {
		current.logger.Error("closing local store", "error", err)
	}

	current = nil
}

// loadAuthedApp is loadApp for commands that need a signed-in user.
func loadAuthedApp(cmd *cobra.Command) (*app, error) {
	a, err := loadApp(cmd)
	if err != nil {
		return nil, err
	}

	if !a.session.IsAuthenticated() {
		closeApp()

		return nil, fmt.Errorf("%w: run '%s login <ms|google|github>' first", auth.ErrNotAuthenticated, application.AppName)
	}

	return a, nil
}

// userSecret returns the JB Manager secret of the signed-in user.
func (a *app) userSecret(ctx context.Context) (string, error) {
	u, err := a.session.GetUser(ctx)
	if err != nil {
		return "", err
	}

	return u.Secret, nil
}

func (a *app) formEnv() form.Env {
	return form.Env{Backend: a.client, Secret: a.userSecret}
}
