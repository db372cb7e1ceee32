package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Where a displayed value came from.
const (
	SourceDefault = "default"
	SourceStored  = "stored"
	SourceEnv     = "env"
)

// KeyInfo describes a config key for display purposes.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
	Source string
}

func lookupSpec(key string) (keySpec, error) {
	for _, s := range specs {
		if s.key == key {
			return s, nil
		}
	}
	return keySpec{}, fmt.Errorf("unknown config key %q (valid: %v)", key, ValidKeys())
}

// IsSecret reports whether key is kept in the keychain rather than the backend.
func IsSecret(key string) bool {
	s, err := lookupSpec(key)
	return err == nil && s.secret
}

// ShowAll returns every non-secret key with its effective value and source.
func ShowAll(cfg Config) []KeyInfo {
	return showWith(newPlatformBackend(), cfg)
}

func showWith(b ConfigBackend, cfg Config) []KeyInfo {
	var result []KeyInfo
	for _, s := range specs {
		if s.secret {
			continue
		}
		src := SourceDefault
		if _, ok, err := b.GetString(s.key); ok && err == nil {
			src = SourceStored
		}
		if os.Getenv(s.env) != "" {
			src = SourceEnv
		}
		result = append(result, KeyInfo{
			Key:    s.key,
			EnvVar: s.env,
			Value:  fmt.Sprintf("%v", s.extract(cfg)),
			Source: src,
		})
	}
	return result
}

// Location is where SetKey persists values on this platform.
func Location() string {
	return newPlatformBackend().Location()
}

// SetKey writes a config key to the platform backend.
func SetKey(key, value string) error {
	return setKeyWith(newPlatformBackend(), key, value)
}

func setKeyWith(b ConfigBackend, key, value string) error {
	s, err := lookupSpec(key)
	if err != nil {
		return err
	}
	if s.secret {
		return fmt.Errorf("cannot set secret %q via config; use environment variable %s", key, s.env)
	}
	switch s.typ {
	case kInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		return b.SetInt(key, i)
	case kDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration value for %s: %w", key, err)
		}
	}
	return b.SetString(key, value)
}

// UnsetKey removes a stored value so the default applies again. For secret
// keys the keychain entry is removed.
func UnsetKey(key string) error {
	return unsetKeyWith(newPlatformBackend(), NewKeychain(), key)
}

func unsetKeyWith(b ConfigBackend, kc Keychain, key string) error {
	s, err := lookupSpec(key)
	if err != nil {
		return err
	}
	if s.secret {
		return kc.Delete(keychainService, s.account)
	}
	return b.Delete(key)
}

// SetSecret stores a secret key in the keychain.
func SetSecret(kc Keychain, key, value string) error {
	s, err := lookupSpec(key)
	if err != nil {
		return err
	}
	if !s.secret {
		return fmt.Errorf("%q is not a secret; use SetKey", key)
	}
	if value == "" {
		return fmt.Errorf("empty value for %s", key)
	}
	return kc.Set(keychainService, s.account, value)
}

// ValidKeys returns the list of valid non-secret config key names.
func ValidKeys() []string {
	var keys []string
	for _, s := range specs {
		if !s.secret {
			keys = append(keys, s.key)
		}
	}
	return keys
}
