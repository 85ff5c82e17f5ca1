package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

type staticSource struct {
	mu    sync.Mutex
	p     *model.Project
	calls int
	err   error
}

func (s *staticSource) Serialize() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return Serialize(s.p)
}

func (s *staticSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func TestAutosaverSaveAndRecover(t *testing.T) {
	path := DefaultAutosavePath(t.TempDir())
	src := &staticSource{p: sampleProject(t)}
	a := NewAutosaver(path, time.Hour, src, quietLogger())

	if err := a.SaveNow(); err != nil {
		t.Fatalf("SaveNow failed: %v", err)
	}
	saved, err := a.LastSaved()
	if err != nil || saved.IsZero() {
		t.Fatalf("expected a successful save, got %v / %v", saved, err)
	}

	p, at, ok := Recover(path, quietLogger())
	if !ok {
		t.Fatal("expected autosave to be recovered")
	}
	if len(p.Racks) != 2 {
		t.Errorf("expected 2 racks, got %d", len(p.Racks))
	}
	if at.IsZero() {
		t.Error("expected the autosave timestamp to be read")
	}
}

func TestAutosaverRunSavesInitiallyAndOnCancel(t *testing.T) {
	path := DefaultAutosavePath(t.TempDir())
	src := &staticSource{p: model.NewProject()}
	a := NewAutosaver(path, time.Hour, src, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for src.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if got := src.count(); got != 2 {
		t.Errorf("expected initial and final save, got %d saves", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("autosave file missing: %v", err)
	}
}

func TestAutosaverReportsFailure(t *testing.T) {
	path := DefaultAutosavePath(t.TempDir())
	src := &staticSource{err: errors.New("boom")}
	a := NewAutosaver(path, 0, src, quietLogger())

	var reported error
	a.OnSave = func(_ time.Time, err error) { reported = err }

	if err := a.SaveNow(); err == nil {
		t.Fatal("expected SaveNow to fail")
	}
	if reported == nil {
		t.Error("expected OnSave to receive the error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no autosave file should be written on failure")
	}
}

func TestAutosaverRunContinuesAfterFailedSave(t *testing.T) {
	path := DefaultAutosavePath(t.TempDir())
	src := &staticSource{err: errors.New("disk full")}
	a := NewAutosaver(path, 5*time.Millisecond, src, quietLogger())

	var mu sync.Mutex
	failures := 0
	a.OnSave = func(_ time.Time, err error) {
		if err != nil {
			mu.Lock()
			failures++
			mu.Unlock()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for src.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if got := src.count(); got < 3 {
		t.Fatalf("expected saving to continue after failures, got %d attempts", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if failures != src.count() {
		t.Errorf("expected every failure reported through OnSave, got %d of %d", failures, src.count())
	}
}

func TestRecoverDiscardsCorruptAutosave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path+".timestamp", []byte("2025-01-01T00:00:00Z"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, ok := Recover(path, quietLogger()); ok {
		t.Fatal("corrupt autosave must not be recovered")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt autosave should be deleted")
	}
	if _, err := os.Stat(path + ".timestamp"); !os.IsNotExist(err) {
		t.Error("timestamp should be deleted with the autosave")
	}
}

func TestRecoverMissingAutosave(t *testing.T) {
	if _, _, ok := Recover(filepath.Join(t.TempDir(), "autosave.json"), quietLogger()); ok {
		t.Fatal("expected nothing to recover")
	}
}

func TestClearAutosave(t *testing.T) {
	path := DefaultAutosavePath(t.TempDir())
	a := NewAutosaver(path, 0, &staticSource{p: model.NewProject()}, quietLogger())
	if err := a.SaveNow(); err != nil {
		t.Fatal(err)
	}

	if err := ClearAutosave(path); err != nil {
		t.Fatalf("ClearAutosave failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("autosave should be removed")
	}
	if err := ClearAutosave(path); err != nil {
		t.Errorf("clearing twice should be fine, got %v", err)
	}
}
