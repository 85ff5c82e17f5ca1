package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvHome, EnvLogLevel, EnvAutosaveSeconds} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	env, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if env.Home != "" || env.LogLevel != "" || env.AutosaveSeconds != -1 {
		t.Errorf("expected empty overrides, got %+v", env)
	}
	if got := env.ConfigDir("/fallback"); got != "/fallback" {
		t.Errorf("expected fallback dir, got %s", got)
	}

	cfg := model.DefaultAppConfig()
	env.Apply(&cfg)
	if cfg.AutoSaveSeconds != 10 || cfg.LogLevel != "info" {
		t.Errorf("apply without overrides changed config: %+v", cfg)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	data := EnvHome + "=/tmp/racks\n" + EnvLogLevel + "=debug\n" + EnvAutosaveSeconds + "=0\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if env.ConfigDir("/fallback") != "/tmp/racks" {
		t.Errorf("expected home override, got %s", env.Home)
	}

	cfg := model.DefaultAppConfig()
	env.Apply(&cfg)
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.AutoSaveSeconds != 0 {
		t.Errorf("expected autosave disabled, got %d", cfg.AutoSaveSeconds)
	}
}

func TestProcessEnvWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "warn")
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(EnvLogLevel+"=debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if env.LogLevel != "warn" {
		t.Errorf("expected process environment to win, got %s", env.LogLevel)
	}
}

func TestLoadRejectsBadAutosave(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAutosaveSeconds, "soon")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for non-numeric autosave interval")
	}
}
