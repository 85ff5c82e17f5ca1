package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// FileExtension is the extension given to saved project documents.
const FileExtension = ".json"

// Save writes p to path as a project document, creating parent directories.
func Save(path string, p *model.Project) error {
	data, err := Serialize(p)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Load reads a project document from path.
func Load(path string) (*model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	p, err := Deserialize(data)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place, so readers never see a partial document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
