package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// DefaultAutosaveInterval matches AppConfig's default of 10 seconds.
const DefaultAutosaveInterval = 10 * time.Second

const timestampSuffix = ".timestamp"

// Snapshotter produces a consistent serialized project. designer.Session
// implements it by serializing under its lock.
type Snapshotter interface {
	Serialize() ([]byte, error)
}

// DefaultAutosavePath returns the autosave file inside the config directory.
func DefaultAutosavePath(configDir string) string {
	return filepath.Join(configDir, "autosave.json")
}

// Autosaver periodically writes project snapshots to a recovery file.
type Autosaver struct {
	path     string
	interval time.Duration
	source   Snapshotter
	logger   *log.Logger

	mu        sync.Mutex
	lastSaved time.Time
	lastErr   error

	// OnSave, if set, is called after every attempt.
	OnSave func(at time.Time, err error)
}

// NewAutosaver returns an Autosaver writing source to path every interval.
// A non-positive interval uses DefaultAutosaveInterval.
func NewAutosaver(path string, interval time.Duration, source Snapshotter, logger *log.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Autosaver{path: path, interval: interval, source: source, logger: logger}
}

// Path returns the autosave file path.
func (a *Autosaver) Path() string { return a.path }

// SaveNow writes a snapshot immediately.
func (a *Autosaver) SaveNow() error {
	data, err := a.source.Serialize()
	if err == nil {
		err = writeAtomic(a.path, data)
	}
	now := time.Now()
	if err == nil {
		err = os.WriteFile(a.path+timestampSuffix, []byte(now.UTC().Format(time.RFC3339)), 0644)
	}

	a.mu.Lock()
	a.lastErr = err
	if err == nil {
		a.lastSaved = now
	}
	cb := a.OnSave
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("auto-save failed", "path", a.path, "err", err)
	} else {
		a.logger.Debug("auto-saved", "path", a.path, "bytes", len(data))
	}
	if cb != nil {
		cb(now, err)
	}
	return err
}

// LastSaved returns the time of the last successful save.
func (a *Autosaver) LastSaved() (time.Time, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSaved, a.lastErr
}

// Run saves once immediately, then on every tick until ctx is cancelled,
// and a final time on the way out. Save errors are logged and passed to
// OnSave by SaveNow; Run keeps going after a failed save.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	_ = a.SaveNow()
	for {
		select {
		case <-ctx.Done():
			_ = a.SaveNow()
			return
		case <-ticker.C:
			_ = a.SaveNow()
		}
	}
}

// Recover loads the autosave at path. An autosave that cannot be decoded is
// deleted and reported as absent.
func Recover(path string, logger *log.Logger) (*model.Project, time.Time, bool) {
	if logger == nil {
		logger = log.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("could not read auto-saved project", "path", path, "err", err)
		}
		return nil, time.Time{}, false
	}
	p, err := Deserialize(data)
	if err != nil {
		logger.Warn("could not recover auto-saved project", "path", path, "err", err)
		ClearAutosave(path)
		return nil, time.Time{}, false
	}

	var at time.Time
	if ts, err := os.ReadFile(path + timestampSuffix); err == nil {
		at, _ = time.Parse(time.RFC3339, strings.TrimSpace(string(ts)))
	}
	logger.Info("recovered auto-saved project", "racks", len(p.Racks), "saved", at)
	return p, at, true
}

// ClearAutosave removes the autosave file and its timestamp.
func ClearAutosave(path string) error {
	var errs []error
	for _, f := range []string{path, path + timestampSuffix} {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
