package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/amassoud-ap34/rack-designer/internal/designer"
	"github.com/amassoud-ap34/rack-designer/internal/importer"
	"github.com/amassoud-ap34/rack-designer/internal/model"
	"github.com/amassoud-ap34/rack-designer/internal/project"
)

// builtinDevices are always listed first in each size class.
var builtinDevices = map[int]string{
	1: "1U Device",
	2: "2U Device",
	3: "3U Device",
	4: "4U Device",
}

var shelfGroups = []struct {
	key   string
	title string
}{
	{model.ShelfGroup3U, "3U Shelves"},
	{model.ShelfGroup6U, "6U Shelves"},
}

// ─── Palette Panel ─────────────────────────────────────────

func (a *App) buildPalettePanel() fyne.CanvasObject {
	a.paletteBox = container.NewVBox()
	a.refreshPalette()

	manageBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		a.showPaletteDialog()
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Palette", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			manageBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.paletteBox),
	)
}

func deviceTooltip(units int) string {
	switch units {
	case 3:
		return "3U device: click, then pick a slot in a 3U shelf"
	case 4:
		return "4U device: click, then pick a slot in a 6U shelf"
	default:
		return fmt.Sprintf("%dU device: click, then pick a rack unit", units)
	}
}

func (a *App) refreshPalette() {
	a.paletteBox.RemoveAll()
	_, pendingSource, pending := a.session.Pending()
	if !pending {
		pendingSource = ""
	}
	a.shownPending = pendingSource

	heading := func(text string) {
		a.paletteBox.Add(widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	}

	for units := 1; units <= 4; units++ {
		heading(fmt.Sprintf("%dU Devices", units))
		entries := append([]model.PaletteEntry{{Name: builtinDevices[units]}}, a.palette.Devices[units]...)
		for i, e := range entries {
			source := fmt.Sprintf("device:%d:%d", units, i)
			a.paletteBox.Add(a.paletteButton(source, e.Name, deviceTooltip(units),
				designer.DevicePayload(units, e), source == pendingSource))
		}
	}

	for _, g := range shelfGroups {
		heading(g.title)
		for _, item := range a.palette.ShelfItems(g.key, model.DefaultShelfItems(g.key)) {
			source := "shelf:" + item.Key()
			tip := "Shelf: click, then pick a free rack unit"
			if spec, ok := model.LookupShelf(item.ShelfType); ok && spec.Blinder() {
				tip = "Blinder shelf: devices pack left to right"
			}
			a.paletteBox.Add(a.paletteButton(source, item.Name, tip,
				designer.ShelfPayload(item), source == pendingSource))
		}
	}
	a.paletteBox.Refresh()
}

// paletteButton arms click-to-place for payload. Tapping the active entry
// again cancels it.
func (a *App) paletteButton(source, label, tip string, payload designer.Payload, active bool) fyne.CanvasObject {
	btn := newButtonWithTooltip(label, nil, tip, func() {
		a.session.SelectPayload(source, payload)
	})
	btn.Alignment = widget.ButtonAlignLeading
	if active {
		btn.Importance = widget.HighImportance
	}
	return btn
}

// syncPalette redraws the palette when the armed entry changed.
func (a *App) syncPalette() {
	_, source, pending := a.session.Pending()
	if !pending {
		source = ""
	}
	if source != a.shownPending {
		a.refreshPalette()
	}
}

// ─── Palette Manager Dialog ────────────────────────────────

func (a *App) showPaletteDialog() {
	list := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		list.RemoveAll()

		for units := 1; units <= 4; units++ {
			list.Add(widget.NewLabelWithStyle(fmt.Sprintf("%dU Devices", units), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
			if len(a.palette.Devices[units]) == 0 {
				list.Add(widget.NewLabel("No custom devices."))
			}
			for _, e := range a.palette.Devices[units] {
				u, name := units, e.Name
				swatch := widget.NewLabel(model.SchemeFor(model.NewDevice(u, name, e.Color, e.FontColor)).Fill)
				row := container.NewGridWithColumns(3,
					widget.NewLabel(name),
					swatch,
					widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
						a.palette.RemoveDevice(u, name)
						a.savePalette()
						refreshList()
					}),
				)
				list.Add(row)
			}
		}

		list.Add(widget.NewSeparator())
		for _, g := range shelfGroups {
			list.Add(widget.NewLabelWithStyle(g.title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
			for _, item := range a.palette.ShelfItems(g.key, model.DefaultShelfItems(g.key)) {
				it := item
				row := container.NewGridWithColumns(3,
					widget.NewLabel(it.Name),
					widget.NewLabel(string(it.ShelfType)),
					widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
						a.palette.DeleteShelf(it)
						a.savePalette()
						refreshList()
					}),
				)
				list.Add(row)
			}
		}
	}

	refreshList()

	addDeviceBtn := widget.NewButtonWithIcon("Add Device", theme.ContentAddIcon(), func() {
		a.showAddDeviceDialog(refreshList)
	})
	addShelfBtn := widget.NewButtonWithIcon("Add Shelf", theme.ContentAddIcon(), func() {
		a.showAddShelfDialog(refreshList)
	})
	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importPalette(refreshList)
	})
	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportPalette()
	})
	loadBtn := widget.NewButtonWithIcon("Load Profile...", theme.DownloadIcon(), func() {
		a.loadPaletteProfile(refreshList)
	})

	toolbar := container.NewHBox(addDeviceBtn, addShelfBtn, layout.NewSpacer(), importBtn, exportBtn, loadBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(list),
	)

	d := dialog.NewCustom("Palette", "Close", content, a.window)
	d.SetOnClosed(a.refreshPalette)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

func (a *App) showAddDeviceDialog(onDone func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Device name")

	sizeSelect := widget.NewSelect([]string{"1U", "2U", "3U", "4U"}, nil)
	sizeSelect.SetSelected("1U")

	colorEntry := widget.NewEntry()
	colorEntry.SetPlaceHolder("#RRGGBB (optional)")

	fontEntry := widget.NewEntry()
	fontEntry.SetPlaceHolder("#RRGGBB (optional)")

	form := dialog.NewForm("Add Device", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Size", sizeSelect),
			widget.NewFormItem("Colour", colorEntry),
			widget.NewFormItem("Text Colour", fontEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			units := int(sizeSelect.Selected[0] - '0')
			entry := model.PaletteEntry{
				Name:      strings.TrimSpace(nameEntry.Text),
				Color:     strings.TrimSpace(colorEntry.Text),
				FontColor: strings.TrimSpace(fontEntry.Text),
			}
			for _, c := range []string{entry.Color, entry.FontColor} {
				if c == "" {
					continue
				}
				if _, err := model.ParseHexColor(c); err != nil {
					dialog.ShowError(fmt.Errorf("invalid colour %q", c), a.window)
					return
				}
			}
			if err := a.palette.AddDevice(units, entry); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.savePalette()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

func (a *App) showAddShelfDialog(onDone func()) {
	var types []string
	for _, s := range model.ShelfCatalog() {
		types = append(types, string(s.Type))
	}

	nameEntry := widget.NewEntry()
	typeSelect := widget.NewSelect(types, func(selected string) {
		if spec, ok := model.LookupShelf(model.ShelfType(selected)); ok && nameEntry.Text == "" {
			nameEntry.SetText(spec.DefaultName)
		}
	})
	typeSelect.PlaceHolder = "Select a shelf type..."

	form := dialog.NewForm("Add Shelf", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Type", typeSelect),
			widget.NewFormItem("Name", nameEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if typeSelect.Selected == "" || name == "" {
				dialog.ShowError(fmt.Errorf("shelf type and name are required"), a.window)
				return
			}
			a.palette.AddShelf(model.ShelfItem{Name: name, ShelfType: model.ShelfType(typeSelect.Selected)})
			a.savePalette()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 200))
	form.Show()
}

func (a *App) savePalette() {
	if err := project.SavePalette(a.palettePath(), a.palette); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save palette: %w", err), a.window)
	}
}

func (a *App) importPalette(onDone func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportFile(reader.URI().Path())
		if len(result.Errors) > 0 {
			errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
			dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
		}
		for _, w := range result.Warnings {
			a.logger.Warn("palette import", "warning", w)
		}

		n := result.Apply(&a.palette)
		if n == 0 {
			return
		}
		a.savePalette()
		onDone()

		msg := fmt.Sprintf("Successfully imported %d palette entries.", n)
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}, a.window)
}

func (a *App) exportPalette() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := project.ExportProfile(writer.URI().Path(), a.palette); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFileName("toolbar-profile.json")
	d.Show()
}

func (a *App) loadPaletteProfile(onDone func()) {
	dialog.ShowConfirm("Load Profile",
		"Loading a profile replaces your current palette.\n\nAre you sure you want to continue?",
		func(ok bool) {
			if !ok {
				return
			}
			dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
				if err != nil || reader == nil {
					return
				}
				defer reader.Close()
				pal, err := project.ImportProfile(reader.URI().Path())
				if err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				a.palette = pal
				a.savePalette()
				onDone()
			}, a.window)
		},
		a.window,
	)
}
