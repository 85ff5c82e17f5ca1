// Package config reads environment overrides for the desktop app and CLI.
// Values come from the process environment, optionally seeded from a .env
// file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Environment variable names.
const (
	EnvHome            = "RACKDESIGNER_HOME"
	EnvLogLevel        = "RACKDESIGNER_LOG_LEVEL"
	EnvAutosaveSeconds = "RACKDESIGNER_AUTOSAVE_SECONDS"
)

// Env holds the environment overrides. Empty fields leave the file
// configuration untouched.
type Env struct {
	Home     string
	LogLevel string

	// AutosaveSeconds is -1 when unset.
	AutosaveSeconds int
}

// Load reads the given .env files (".env" when none are named) and then the
// process environment. Missing files are ignored.
func Load(files ...string) (*Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}

	env := &Env{
		Home:            getEnv(EnvHome, ""),
		LogLevel:        getEnv(EnvLogLevel, ""),
		AutosaveSeconds: -1,
	}
	if v := getEnv(EnvAutosaveSeconds, ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer, got %q", EnvAutosaveSeconds, v)
		}
		env.AutosaveSeconds = n
	}
	return env, nil
}

// ConfigDir returns the overridden config directory, or fallback.
func (e *Env) ConfigDir(fallback string) string {
	if e.Home != "" {
		return e.Home
	}
	return fallback
}

// Apply overlays the environment on cfg.
func (e *Env) Apply(cfg *model.AppConfig) {
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}
	if e.AutosaveSeconds >= 0 {
		cfg.AutoSaveSeconds = e.AutosaveSeconds
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
