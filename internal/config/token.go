package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

const apiTokenAccount = "api_token"

// GetAPIToken returns the bearer token guarding the dashboard API. It is
// read from SOLACES_API_TOKEN, then the keychain; when neither holds one a
// new token is generated and stored in the keychain.
func GetAPIToken(kc Keychain) (string, error) {
	if tok := strings.TrimSpace(os.Getenv("SOLACES_API_TOKEN")); tok != "" {
		return tok, nil
	}
	if tok, err := kc.Get(keychainService, apiTokenAccount); err == nil && tok != "" {
		return tok, nil
	}

	tok := uuid.NewString()
	if err := kc.Set(keychainService, apiTokenAccount, tok); err != nil {
		return "", fmt.Errorf("storing API token: %w", err)
	}
	return tok, nil
}
