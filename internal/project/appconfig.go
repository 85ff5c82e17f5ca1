package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.rackdesigner/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".rackdesigner")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// SaveAppConfig persists an AppConfig to the given path, as TOML when the
// path ends in .toml and as JSON otherwise.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(f).Encode(config); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. Fields missing from
// the file keep their defaults.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &config); err != nil {
			return model.AppConfig{}, err
		}
	} else if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure RecentProjects is never nil
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}
