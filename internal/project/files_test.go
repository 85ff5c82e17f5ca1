package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts", "lab.json")
	p := sampleProject(t)

	if err := Save(path, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Racks) != 2 {
		t.Fatalf("expected 2 racks, got %d", len(loaded.Racks))
	}
	if got, want := loaded.DeviceCount(), p.DeviceCount(); got != want {
		t.Errorf("expected %d devices, got %d", want, got)
	}
	if loaded.Racks[0].Name != "Core" {
		t.Errorf("expected first rack Core, got %s", loaded.Racks[0].Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadInvalidProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"racks":"nope"}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "autosave.json")

	for i := 0; i < 3; i++ {
		if err := writeAtomic(path, []byte(`{"version":1,"racks":[]}`)); err != nil {
			t.Fatalf("writeAtomic failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}
