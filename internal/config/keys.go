package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	// account is the keychain account of a secret key.
	account string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "SOLACES_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "log.level", typ: kString, env: "SOLACES_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "storage.backend", typ: kString, env: "SOLACES_STORAGE_BACKEND",
		apply:   func(cfg *Config, v any) { cfg.Storage.Backend = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.Backend },
	},
	{
		key: "storage.data_dir", typ: kString, env: "SOLACES_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "storage.redis_url", typ: kString, env: "SOLACES_STORAGE_REDIS_URL",
		apply:   func(cfg *Config, v any) { cfg.Storage.RedisURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.RedisURL },
	},
	{
		key: "gateway.base_url", typ: kString, env: "SOLACES_GATEWAY_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Gateway.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Gateway.BaseURL },
	},
	{
		key: "gateway.key_header", typ: kString, env: "SOLACES_GATEWAY_KEY_HEADER",
		apply:   func(cfg *Config, v any) { cfg.Gateway.KeyHeader = v.(string) },
		extract: func(cfg Config) any { return cfg.Gateway.KeyHeader },
	},
	{
		key: "gateway.api_key", typ: kString, env: "SOLACES_GATEWAY_API_KEY",
		secret: true, account: gatewayKeyAccount,
		apply:   func(cfg *Config, v any) { cfg.Gateway.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Gateway.APIKey },
	},
	{
		key: "gateway.poll_interval", typ: kDuration, env: "SOLACES_GATEWAY_POLL_INTERVAL",
		apply:   func(cfg *Config, v any) { cfg.Gateway.PollInterval = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Gateway.PollInterval },
	},
	{
		key: "gateway.timeout", typ: kDuration, env: "SOLACES_GATEWAY_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Gateway.Timeout = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Gateway.Timeout },
	},
	{
		key: "proxy.prefix", typ: kString, env: "SOLACES_PROXY_PREFIX",
		apply:   func(cfg *Config, v any) { cfg.Proxy.Prefix = v.(string) },
		extract: func(cfg Config) any { return cfg.Proxy.Prefix },
	},
	{
		key: "proxy.allow_origin", typ: kString, env: "SOLACES_PROXY_ALLOW_ORIGIN",
		apply:   func(cfg *Config, v any) { cfg.Proxy.AllowOrigin = v.(string) },
		extract: func(cfg Config) any { return cfg.Proxy.AllowOrigin },
	},
	{
		key: "scenes.file", typ: kString, env: "SOLACES_SCENES_FILE",
		apply:   func(cfg *Config, v any) { cfg.Scenes.File = v.(string) },
		extract: func(cfg Config) any { return cfg.Scenes.File },
	},
	{
		key: "redirect.oracle_host", typ: kString, env: "SOLACES_REDIRECT_ORACLE_HOST",
		apply:   func(cfg *Config, v any) { cfg.Redirect.OracleHost = v.(string) },
		extract: func(cfg Config) any { return cfg.Redirect.OracleHost },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
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
		case kDuration:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if d, err := time.ParseDuration(v); err == nil {
					s.apply(cfg, d)
				} else {
					slog.Warn("ignoring unparsable duration", "key", s.key, "value", v, "error", err)
				}
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
				slog.Warn("ignoring unparsable integer", "env", s.env, "value", raw, "error", err)
			}
		case kDuration:
			if d, err := time.ParseDuration(raw); err == nil {
				s.apply(cfg, d)
			} else {
				slog.Warn("ignoring unparsable duration", "env", s.env, "value", raw, "error", err)
			}
		}
	}
}
