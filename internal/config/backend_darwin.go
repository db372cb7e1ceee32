//go:build darwin

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultsDomain = "me.solaces.app"

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Library", "Application Support", "solaces")
	}
	return "solaces-data"
}

func apiKeyHint() string {
	return ", `solaces config set gateway.api_key <key>`, or the login keychain (service solaces, account gateway_api_key)"
}

// defaultsBackend reads and writes the user defaults domain through the
// `defaults` tool.
type defaultsBackend struct {
	domain string
}

func newPlatformBackend() ConfigBackend {
	return &defaultsBackend{domain: defaultsDomain}
}

func (b *defaultsBackend) Location() string { return "defaults domain " + b.domain }

func (b *defaultsBackend) run(args ...string) (string, error) {
	out, err := exec.Command("defaults", args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// missing reports whether err is `defaults` failing on an absent key.
func missing(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

func (b *defaultsBackend) GetString(key string) (string, bool, error) {
	s, err := b.run("read", b.domain, key)
	if missing(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("defaults read %s: %w (%s)", key, err, s)
	}
	return s, true, nil
}

func (b *defaultsBackend) GetInt(key string) (int, bool, error) {
	s, ok, err := b.GetString(key)
	if !ok || err != nil {
		return 0, ok, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	return i, true, nil
}

func (b *defaultsBackend) SetString(key, val string) error {
	_, err := b.run("write", b.domain, key, "-string", val)
	return err
}

func (b *defaultsBackend) SetInt(key string, val int) error {
	_, err := b.run("write", b.domain, key, "-int", strconv.Itoa(val))
	return err
}

func (b *defaultsBackend) Delete(key string) error {
	if _, err := b.run("delete", b.domain, key); err != nil && !missing(err) {
		return err
	}
	return nil
}
