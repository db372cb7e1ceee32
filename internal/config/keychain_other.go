//go:build !darwin

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func secretsFilePath() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "secrets.json")
}

// secrets is the on-disk layout: service -> account -> value.
type secrets map[string]map[string]string

func readSecrets() (secrets, error) {
	data, err := os.ReadFile(secretsFilePath())
	if errors.Is(err, os.ErrNotExist) {
		return secrets{}, nil
	}
	if err != nil {
		return nil, err
	}
	s := secrets{}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing secrets file: %w", err)
	}
	return s, nil
}

func (s secrets) write() error {
	p := secretsFilePath()
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("creating secrets dir: %w", err)
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, out, 0o600)
}

func keychainGet(service, account string) ([]byte, error) {
	s, err := readSecrets()
	if err != nil {
		return nil, err
	}
	val, ok := s[service][account]
	if !ok {
		return nil, fmt.Errorf("no secret %s/%s in %s", service, account, secretsFilePath())
	}
	return []byte(val), nil
}

func keychainSet(service, account, value string) error {
	s, err := readSecrets()
	if err != nil {
		return err
	}
	if s[service] == nil {
		s[service] = map[string]string{}
	}
	s[service][account] = value
	return s.write()
}

func keychainDelete(service, account string) error {
	s, err := readSecrets()
	if err != nil {
		return err
	}
	if _, ok := s[service][account]; !ok {
		return nil
	}
	delete(s[service], account)
	return s.write()
}
