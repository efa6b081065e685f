// Package file provides the TOML configuration store. Settings live at
// ~/.stockctl/config.toml; each value can be overridden with a STOCKCTL_*
// environment variable.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the full configuration file content.
type Settings struct {
	// API is the inventory backend configuration.
	API APISettings `toml:"api"`
	// Identity is the OAuth client configuration.
	Identity IdentitySettings `toml:"identity"`
}

// APISettings configures the backend connection.
type APISettings struct {
	// BaseURL is the inventory backend root, e.g. https://stock.example.com.
	BaseURL string `toml:"base_url"`
}

// IdentitySettings configures the OAuth public client.
type IdentitySettings struct {
	ClientID     string `toml:"client_id"`
	Authority    string `toml:"authority"`
	APIScope     string `toml:"api_scope"`
	AuthURL      string `toml:"auth_url,omitempty"`
	TokenURL     string `toml:"token_url,omitempty"`
	CallbackPort int    `toml:"callback_port,omitempty"`
}

// ConfigStore reads and writes the configuration file.
type ConfigStore struct {
	path string
}

// NewConfigStore creates a store for the given file path. An empty path
// selects ~/.stockctl/config.toml.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".stockctl", "config.toml")
	}
	return &ConfigStore{path: path}, nil
}

// Load reads the configuration file and applies environment overrides.
// A missing file is not an error: overrides alone can carry a complete
// configuration.
func (s *ConfigStore) Load() (Settings, error) {
	var settings Settings

	raw, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(raw, &settings); err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", s.path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// fall through to the environment
	default:
		return Settings{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	applyEnvOverrides(&settings)
	return settings, nil
}

// Save writes the configuration file, creating its directory when needed.
func (s *ConfigStore) Save(settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	raw, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Path returns the configuration file location.
func (s *ConfigStore) Path() string {
	return s.path
}

func applyEnvOverrides(settings *Settings) {
	overrideString(&settings.API.BaseURL, "STOCKCTL_API_BASE_URL")
	overrideString(&settings.Identity.ClientID, "STOCKCTL_CLIENT_ID")
	overrideString(&settings.Identity.Authority, "STOCKCTL_AUTHORITY")
	overrideString(&settings.Identity.APIScope, "STOCKCTL_API_SCOPE")
	overrideString(&settings.Identity.AuthURL, "STOCKCTL_AUTH_URL")
	overrideString(&settings.Identity.TokenURL, "STOCKCTL_TOKEN_URL")

	if raw := os.Getenv("STOCKCTL_CALLBACK_PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			settings.Identity.CallbackPort = port
		}
	}
}

func overrideString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}
