package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/amassoud-ap34/rack-designer/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil && v >= 0 {
				*val = v
			}
		}
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	levelSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	levelSelect.SetSelected(cfg.LogLevel)

	prefixEntry := widget.NewEntry()
	prefixEntry.SetText(cfg.RackNamePrefix)
	prefixEntry.OnChanged = func(text string) {
		cfg.RackNamePrefix = text
	}

	wrapEntry := widget.NewEntry()
	wrapEntry.SetText(fmt.Sprintf("%.0f", cfg.CanvasWidth))
	wrapEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil && v >= 0 {
			cfg.CanvasWidth = v
		}
	}

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Auto-Save Interval (s, 0=off)", intEntry(&cfg.AutoSaveSeconds)),
		widget.NewFormItem("Log Level", levelSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Rack Name Prefix", prefixEntry),
		widget.NewFormItem("Wrap Racks At (px, 0=never)", wrapEntry),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if cfg.RackNamePrefix == "" {
				cfg.RackNamePrefix = "Rack"
			}
			restartAutosave := cfg.AutoSaveSeconds != a.config.AutoSaveSeconds
			a.config = cfg
			if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
				a.logger.SetLevel(level)
			}
			a.applyTheme()
			if restartAutosave {
				a.startAutosave()
			}
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved",
					"Application settings have been saved.\nRack naming changes apply after a restart.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(480, 360))
	d.Show()
}

// showImportExportDialog displays the backup dialog for settings and palette.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.palette); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings and palette exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("rackdesigner-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current settings and palette.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					a.palette = backup.Palette.Palette()
					a.applyTheme()
					a.savePalette()
					a.refreshPalette()
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings and the palette to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath, a.config)
}
