package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// ProfileVersion is the toolbar profile version written by ExportProfile.
const ProfileVersion = 1

// ErrInvalidProfile is returned for toolbar profiles that are not JSON objects.
var ErrInvalidProfile = errors.New("invalid toolbar profile")

var deviceKeys = []struct {
	key   string
	units int
}{
	{"1U", 1},
	{"2U", 2},
	{"3U", 3},
	{"4U", 4},
}

// ToolbarProfile is the shareable form of the palette.
type ToolbarProfile struct {
	Version       int                                `json:"version"`
	ExportedAt    string                             `json:"exportedAt"`
	CustomDevices map[string][]model.PaletteEntry    `json:"customDevices"`
	Shelves       map[string]model.ShelfPaletteGroup `json:"shelves"`
}

// DefaultPalettePath returns the file the palette is kept in between runs.
// This is located at ~/.rackdesigner/palette.json.
func DefaultPalettePath(configDir string) string {
	return filepath.Join(configDir, "palette.json")
}

// NewToolbarProfile builds the exported form of p.
func NewToolbarProfile(p model.Palette) ToolbarProfile {
	prof := ToolbarProfile{
		Version:       ProfileVersion,
		ExportedAt:    time.Now().UTC().Format(time.RFC3339),
		CustomDevices: map[string][]model.PaletteEntry{},
		Shelves:       map[string]model.ShelfPaletteGroup{},
	}
	for _, dk := range deviceKeys {
		list := p.Devices[dk.units]
		if list == nil {
			list = []model.PaletteEntry{}
		}
		prof.CustomDevices[dk.key] = list
	}
	for _, group := range []string{model.ShelfGroup3U, model.ShelfGroup6U} {
		g := p.Shelves[group]
		if g.Items == nil {
			g.Items = model.DefaultShelfItems(group)
		}
		if g.Deleted == nil {
			g.Deleted = []string{}
		}
		prof.Shelves[group] = g
	}
	return prof
}

// Palette converts the profile back into a palette. Missing groups are empty.
func (tp ToolbarProfile) Palette() model.Palette {
	p := model.NewPalette()
	for _, dk := range deviceKeys {
		if list := tp.CustomDevices[dk.key]; len(list) > 0 {
			p.Devices[dk.units] = list
		}
	}
	for _, group := range []string{model.ShelfGroup3U, model.ShelfGroup6U} {
		if g, ok := tp.Shelves[group]; ok {
			p.Shelves[group] = g
		}
	}
	return p
}

// MarshalProfile encodes the palette as an indented toolbar profile.
func MarshalProfile(p model.Palette) ([]byte, error) {
	return json.MarshalIndent(NewToolbarProfile(p), "", "  ")
}

// UnmarshalProfile decodes a toolbar profile. A leading byte order mark is
// ignored; anything but a JSON object is rejected.
func UnmarshalProfile(data []byte) (model.Palette, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(data) == 0 || data[0] != '{' {
		return model.Palette{}, ErrInvalidProfile
	}
	var tp ToolbarProfile
	if err := json.Unmarshal(data, &tp); err != nil {
		return model.Palette{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return tp.Palette(), nil
}

// ExportProfile writes the palette to path as a toolbar profile.
func ExportProfile(path string, p model.Palette) error {
	data, err := MarshalProfile(p)
	if err != nil {
		return fmt.Errorf("failed to encode toolbar profile: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile reads a toolbar profile. The result replaces the current
// palette.
func ImportProfile(path string) (model.Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Palette{}, err
	}
	return UnmarshalProfile(data)
}

// SavePalette writes the palette to the specified file.
func SavePalette(path string, p model.Palette) error {
	return ExportProfile(path, p)
}

// LoadPalette reads the palette from the specified file.
// If the file does not exist, it returns an empty palette.
func LoadPalette(path string) (model.Palette, error) {
	p, err := ImportProfile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewPalette(), nil
		}
		return model.NewPalette(), err
	}
	return p, nil
}
