package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// BackupVersion is written into every backup. Backups from a newer major
// version are refused.
const BackupVersion = "1.0.0"

// BackupData bundles the app settings and the toolbar palette.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Palette   ToolbarProfile  `json:"palette"`
}

// ExportAllData writes config and palette to one JSON backup at path.
func ExportAllData(path string, config model.AppConfig, palette model.Palette) error {
	data, err := json.MarshalIndent(BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Palette:   NewToolbarProfile(palette),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup written by ExportAllData. Applying it is up
// to the caller.
func ImportAllData(path string) (BackupData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	switch major, _, _ := strings.Cut(backup.Version, "."); major {
	case "":
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	case "1":
	default:
		return BackupData{}, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	if backup.Config.RackNamePrefix == "" {
		backup.Config.RackNamePrefix = model.DefaultAppConfig().RackNamePrefix
	}
	return backup, nil
}
