package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Storage  StorageConfig
	Gateway  GatewayConfig
	Proxy    ProxyConfig
	Scenes   ScenesConfig
	Redirect RedirectConfig
}

type ServerConfig struct {
	Port int
}

type LogConfig struct {
	Level string
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type StorageConfig struct {
	Backend  string
	DataDir  string
	RedisURL string
}

type GatewayConfig struct {
	BaseURL      string
	KeyHeader    string
	APIKey       string
	PollInterval time.Duration
	Timeout      time.Duration
}

type ProxyConfig struct {
	Prefix      string
	AllowOrigin string
}

type ScenesConfig struct {
	// File is a YAML scenes file; empty means the built-in scenes.
	File string
}

type RedirectConfig struct {
	OracleHost string
}

// Keychain service and accounts holding secrets.
const (
	keychainService   = "solaces"
	gatewayKeyAccount = "gateway_api_key"
)

func defaults() Config {
	return Config{
		Server: ServerConfig{Port: 4100},
		Log:    LogConfig{Level: "info"},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DataDir: defaultDataDir(),
		},
		Gateway: GatewayConfig{
			BaseURL:      "https://astra-gw.solaces.me/api/astra",
			KeyHeader:    "x-astra-key",
			PollInterval: 5 * time.Second,
			Timeout:      10 * time.Second,
		},
		Proxy: ProxyConfig{
			Prefix:      "/api/astra/",
			AllowOrigin: "https://solaces.me",
		},
		Redirect: RedirectConfig{OracleHost: "oracle.solaces.me"},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: me.solaces.app) and secrets
// fall back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/solaces/config.json
// and secrets fall back to $XDG_DATA_HOME/solaces/secrets.json.
//
// Environment variables (SOLACES_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), NewKeychain())
}

// Keychain abstracts the platform secret store.
type Keychain interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

func loadWith(b ConfigBackend, kc Keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try platform keychain for the gateway key if still empty.
	if cfg.Gateway.APIKey == "" {
		if key, err := kc.Get(keychainService, gatewayKeyAccount); err == nil && key != "" {
			cfg.Gateway.APIKey = key
		}
	}

	if cfg.Gateway.APIKey == "" {
		msg := "missing required config: gateway API key. " +
			"Set it via environment variable SOLACES_GATEWAY_API_KEY" +
			apiKeyHint()
		return Config{}, fmt.Errorf("%s", msg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that have a closed set of values.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.backend is redis but storage.redis_url is empty")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q (want sqlite, redis or memory)", c.Storage.Backend)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Gateway.PollInterval <= 0 {
		return fmt.Errorf("gateway.poll_interval must be positive")
	}
	return nil
}

// NewKeychain returns the native secret store of the platform.
func NewKeychain() Keychain {
	return platformKeychain{}
}

type platformKeychain struct{}

func (platformKeychain) Get(service, account string) (string, error) {
	out, err := keychainGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (platformKeychain) Set(service, account, value string) error {
	return keychainSet(service, account, value)
}

func (platformKeychain) Delete(service, account string) error {
	return keychainDelete(service, account)
}
