package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.host", typ: kString, env: "VITAE_SERVER_HOST",
		apply:   func(cfg *Config, v any) { cfg.Server.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Host },
	},
	{
		key: "server.port", typ: kInt, env: "VITAE_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "content.dir", typ: kString, env: "VITAE_CONTENT_DIR",
		apply:   func(cfg *Config, v any) { cfg.Content.Dir = v.(string) },
		extract: func(cfg Config) any { return cfg.Content.Dir },
	},
	{
		key: "content.poll_interval", typ: kString, env: "VITAE_CONTENT_POLL_INTERVAL",
		apply:   func(cfg *Config, v any) { cfg.Content.PollInterval = v.(string) },
		extract: func(cfg Config) any { return cfg.Content.PollInterval },
	},
	{
		key: "storage.data_dir", typ: kString, env: "VITAE_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "site.languages", typ: kString, env: "VITAE_SITE_LANGUAGES",
		apply:   func(cfg *Config, v any) { cfg.Site.Languages = v.(string) },
		extract: func(cfg Config) any { return cfg.Site.Languages },
	},
	{
		key: "site.default_language", typ: kString, env: "VITAE_SITE_DEFAULT_LANGUAGE",
		apply:   func(cfg *Config, v any) { cfg.Site.DefaultLanguage = v.(string) },
		extract: func(cfg Config) any { return cfg.Site.DefaultLanguage },
	},
	{
		key: "admin.token", typ: kString, env: "VITAE_ADMIN_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Admin.Token = v.(string) },
		extract: func(cfg Config) any { return cfg.Admin.Token },
	},
	{
		key: "log.level", typ: kString, env: "VITAE_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			// Secrets never live in the config file.
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
