// Package ui provides the Rack Designer desktop front end.
//
// This file defines a compact Fyne theme that follows the configured
// light/dark preference.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// RackTheme wraps the default Fyne theme with compact sizing overrides so
// the palette and a full 42U rack fit on one screen.
type RackTheme struct {
	base    fyne.Theme
	forced  bool
	variant fyne.ThemeVariant
}

// NewRackTheme creates a theme for a config value of "light", "dark" or
// "system". Unknown values follow the system.
func NewRackTheme(name string) *RackTheme {
	t := &RackTheme{base: theme.DefaultTheme()}
	t.SetPreference(name)
	return t
}

// SetPreference updates the light/dark preference.
func (t *RackTheme) SetPreference(name string) {
	switch name {
	case "light":
		t.forced, t.variant = true, theme.VariantLight
	case "dark":
		t.forced, t.variant = true, theme.VariantDark
	default:
		t.forced = false
	}
}

// Color delegates to the base theme, overriding the variant when forced.
func (t *RackTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *RackTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *RackTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *RackTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
