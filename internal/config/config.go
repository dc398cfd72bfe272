// Package config loads layered configuration: compiled defaults, the
// JSON file backend at $XDG_CONFIG_HOME/vitae/config.json, and VITAE_*
// environment variable overrides, in that order.
package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Content ContentConfig
	Storage StorageConfig
	Site    SiteConfig
	Admin   AdminConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type ContentConfig struct {
	Dir          string
	PollInterval string // duration string; parsed by PollInterval()
}

type StorageConfig struct {
	DataDir string
}

type SiteConfig struct {
	Languages       string // comma-separated language codes
	DefaultLanguage string
}

type AdminConfig struct {
	Token string // bearer token for /admin routes; env-only secret
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Content: ContentConfig{
			Dir:          "content",
			PollInterval: "2s",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Site: SiteConfig{
			Languages:       "en,pt",
			DefaultLanguage: "en",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the file backend and environment.
// Environment variables (VITAE_*) override backend values.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	langs := c.LanguageList()
	if len(langs) == 0 {
		return fmt.Errorf("site.languages must name at least one language code")
	}
	found := false
	for _, l := range langs {
		if l == c.Site.DefaultLanguage {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("site.default_language %q is not among site.languages %q", c.Site.DefaultLanguage, c.Site.Languages)
	}
	if _, err := c.PollInterval(); err != nil {
		return err
	}
	return nil
}

// LanguageList returns the configured language codes, trimmed, in
// declaration order.
func (c Config) LanguageList() []string {
	parts := strings.Split(c.Site.Languages, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// PollInterval parses content.poll_interval.
func (c Config) PollInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Content.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid content.poll_interval %q: %w", c.Content.PollInterval, err)
	}
	return d, nil
}
