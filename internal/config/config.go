// Package config loads the console configuration.
//
// Values are layered, later sources winning:
//
//	defaults
//	config.toml in the application directory (${VAR} references expanded)
//	.env file (never overrides variables already set in the environment)
//	JB_* environment variables
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultCallbackPort = 8340
	DefaultMSTenant     = "common"
	DefaultGitHubHost   = "https://github.com"
	DefaultStore        = "bolt"
)

// ErrServerHostRequired is returned by Validate when no API host is configured
var ErrServerHostRequired = errors.New("server host is required (set JB_SERVER_HOST or server_host in config.toml)")

type Config struct {
	ServerHost   string       `toml:"server_host"`
	Store        string       `toml:"store"`
	RedirectURI  string       `toml:"redirect_uri"`
	CallbackPort int          `toml:"callback_port"`
	MS           MSConfig     `toml:"ms"`
	Google       GoogleConfig `toml:"google"`
	GitHub       GitHubConfig `toml:"github"`
}

// MSConfig configures the Microsoft enterprise identity provider.
type MSConfig struct {
	ClientID string `toml:"client_id"`
	TenantID string `toml:"tenant_id"`
	ScopeURI string `toml:"scope_uri"`
}

type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

type GitHubConfig struct {
	ClientID string `toml:"client_id"`
	Host     string `toml:"host"`
}

// LoadOptions selects the files consulted by Load. Empty paths fall back to
// ".env" in the working directory and skip the TOML file respectively.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:        DefaultStore,
		CallbackPort: DefaultCallbackPort,
		MS:           MSConfig{TenantID: DefaultMSTenant},
		GitHub:       GitHubConfig{Host: DefaultGitHubHost},
	}
}

// Load builds the effective configuration.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		if err := cfg.mergeFile(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", opts.EnvFile, err)
		}
	} else {
		_ = godotenv.Load(".env")
	}

	cfg.applyEnv()

	if cfg.RedirectURI == "" {
		cfg.RedirectURI = fmt.Sprintf("http://localhost:%d/callback", cfg.CallbackPort)
	}

	cfg.ServerHost = strings.TrimRight(cfg.ServerHost, "/")

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(expandEnvVars(string(data)), c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() {
	c.ServerHost = getEnv("JB_SERVER_HOST", c.ServerHost)
	c.Store = getEnv("JB_STORE", c.Store)
	c.RedirectURI = getEnv("JB_REDIRECT_URI", c.RedirectURI)
	c.CallbackPort = getEnvInt("JB_CALLBACK_PORT", c.CallbackPort)
	c.MS.ClientID = getEnv("JB_MS_CLIENT_ID", c.MS.ClientID)
	c.MS.TenantID = getEnv("JB_MS_TENANT_ID", c.MS.TenantID)
	c.MS.ScopeURI = getEnv("JB_MS_SCOPE_URI", c.MS.ScopeURI)
	c.Google.ClientID = getEnv("JB_GOOGLE_CLIENT_ID", c.Google.ClientID)
	c.Google.ClientSecret = getEnv("JB_GOOGLE_CLIENT_SECRET", c.Google.ClientSecret)
	c.GitHub.ClientID = getEnv("JB_GITHUB_CLIENT_ID", c.GitHub.ClientID)
	c.GitHub.Host = getEnv("JB_GITHUB_HOST", c.GitHub.Host)
}

// Validate checks the values every API call depends on.
func (c *Config) Validate() error {
	if c.ServerHost == "" {
		return ErrServerHostRequired
	}

	u, err := url.Parse(c.ServerHost)
	if err != nil {
		return fmt.Errorf("server host is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server host must use http or https scheme")
	}

	if c.CallbackPort <= 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("callback port %d out of range", c.CallbackPort)
	}

	return nil
}

// Masked returns a copy safe to print.
func (c *Config) Masked() *Config {
	out := *c
	out.Google.ClientSecret = mask(c.Google.ClientSecret)

	return &out
}

func mask(s string) string {
	if s == "" {
		return ""
	}

	if len(s) <= 4 {
		return "****"
	}

	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}"))
	})
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
