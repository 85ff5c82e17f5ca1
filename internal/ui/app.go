package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/amassoud-ap34/rack-designer/internal/designer"
	"github.com/amassoud-ap34/rack-designer/internal/export"
	"github.com/amassoud-ap34/rack-designer/internal/model"
	"github.com/amassoud-ap34/rack-designer/internal/project"
	"github.com/amassoud-ap34/rack-designer/internal/ui/widgets"
)

// Options configures the desktop app.
type Options struct {
	Logger     *log.Logger
	ConfigDir  string
	ConfigPath string
	Config     model.AppConfig

	// Project is opened on start instead of offering auto-save recovery.
	Project string
}

// App holds all application state and UI references.
type App struct {
	app    fyne.App
	window fyne.Window
	logger *log.Logger
	theme  *RackTheme

	session *designer.Session
	canvas  *widgets.RackCanvas

	config     model.AppConfig
	configDir  string
	configPath string
	palette    model.Palette

	filePath      string
	savedRevision uint64

	autosaver    *project.Autosaver
	stopAutosave func()
	closing      atomic.Bool

	// UI references for dynamic updates
	paletteBox    *fyne.Container
	shownPending  string
	statusLabel   *widget.Label
	autosaveLabel *widget.Label
}

// Run opens the main window and blocks until it is closed.
func Run(opts Options) error {
	application := app.NewWithID("com.amassoud.rackdesigner")
	window := application.NewWindow("Rack Designer")

	appUI := NewApp(application, window, opts)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()
	window.SetCloseIntercept(appUI.quit)

	appUI.restore(opts.Project)
	appUI.startAutosave()

	window.ShowAndRun()
	appUI.shutdown()
	return nil
}

// NewApp wires a designer session to window. The palette is read from the
// config directory.
func NewApp(application fyne.App, window fyne.Window, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = project.DefaultConfigDir()
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(configDir, "config.toml")
	}

	a := &App{
		app:        application,
		window:     window,
		logger:     logger,
		config:     opts.Config,
		configDir:  configDir,
		configPath: configPath,
	}
	a.theme = NewRackTheme(a.config.Theme)
	application.Settings().SetTheme(a.theme)

	pal, err := project.LoadPalette(a.palettePath())
	if err != nil {
		logger.Warn("could not load palette, starting empty", "path", a.palettePath(), "err", err)
	}
	a.palette = pal

	a.session = designer.New(
		designer.WithLogger(logger),
		designer.WithConfig(a.config),
		designer.WithNotifier(designer.NotifierFunc(a.notify)),
		designer.WithPrompter(entryPrompter{window: window}),
	)
	return a
}

func (a *App) palettePath() string {
	return project.DefaultPalettePath(a.configDir)
}

func (a *App) autosavePath() string {
	if a.config.AutoSavePath != "" {
		return a.config.AutoSavePath
	}
	return project.DefaultAutosavePath(a.configDir)
}

// notify shows a rejected placement to the user.
func (a *App) notify(message string) {
	fyne.Do(func() {
		dialog.ShowInformation("Cannot Place", message, a.window)
	})
}

// entryPrompter asks for text in a modal form. The reply arrives when the
// dialog is dismissed.
type entryPrompter struct {
	window fyne.Window
}

func (p entryPrompter) RequestText(label, current string, reply func(text string, ok bool)) {
	fyne.Do(func() {
		entry := widget.NewEntry()
		entry.SetText(current)
		form := dialog.NewForm(label, "OK", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Name", entry)},
			func(ok bool) { reply(entry.Text, ok) },
			p.window,
		)
		form.Resize(fyne.NewSize(380, 160))
		form.Show()
		p.window.Canvas().Focus(entry)
	})
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	var recent []*fyne.MenuItem
	for _, path := range a.config.RecentProjects {
		p := path
		recent = append(recent, fyne.NewMenuItem(filepath.Base(p), func() {
			a.openPath(p)
		}))
	}
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	if len(recent) == 0 {
		recentItem.Disabled = true
	} else {
		recentItem.ChildMenu = fyne.NewMenu("", recent...)
	}

	// File Menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", a.newProject),
		fyne.NewMenuItem("Open Project...", a.openProject),
		recentItem,
		fyne.NewMenuItem("Save Project", a.saveProject),
		fyne.NewMenuItem("Save Project As...", a.saveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Rack PDF...", func() {
			a.exportWith("rack-layout.pdf", export.ExportPDF)
		}),
		fyne.NewMenuItem("Export Asset Labels...", func() {
			a.exportWith("rack-labels.pdf", export.ExportLabels)
		}),
		fyne.NewMenuItem("Export Inventory (Excel)...", func() {
			a.exportWith("rack-inventory.xlsx", export.ExportInventory)
		}),
		fyne.NewMenuItem("Export Elevation (DXF)...", func() {
			a.exportWith("rack-layout.dxf", export.ExportDXF)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", a.quit),
	)

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Add Rack", func() { a.session.AddRack() }),
		fyne.NewMenuItem("Rename Selected...", a.renameSelected),
		fyne.NewMenuItem("Colours of Selected...", func() { a.showColorDialog(a.session.Selected()) }),
		fyne.NewMenuItem("Delete Selected", a.deleteSelected),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cancel Placement", a.session.CancelPending),
	)

	// Tools Menu
	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Palette...", a.showPaletteDialog),
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About Rack Designer",
		"Rack Designer\n\n"+
			"Plan 42U rack elevations with devices, slotted shelves\n"+
			"and blinder shelves, then export PDF, labels, Excel and DXF.\n\n"+
			"Click a palette entry, then a rack unit or shelf slot to place it.\n"+
			"Drag elements to move them. Right-click for more actions.",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.canvas = widgets.NewRackCanvas(a.session)
	a.canvas.OnSecondaryTap = a.showContextMenu
	a.canvas.OnError = func(err error) {
		dialog.ShowError(err, a.window)
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), a.newProject),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.openProject),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.saveProject),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), func() { a.session.AddRack() }),
		widget.NewToolbarAction(theme.DeleteIcon(), a.deleteSelected),
		widget.NewToolbarAction(theme.CancelIcon(), a.session.CancelPending),
	)

	a.statusLabel = widget.NewLabel("")
	a.autosaveLabel = widget.NewLabel("")
	status := container.NewHBox(a.statusLabel, layout.NewSpacer(), a.autosaveLabel)

	split := container.NewHSplit(a.buildPalettePanel(), container.NewScroll(a.canvas))
	split.SetOffset(0.18)

	a.session.OnChange(func() {
		fyne.Do(func() {
			a.syncPalette()
			a.updateStatus()
		})
	})
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			a.deleteSelected()
		case fyne.KeyEscape:
			a.session.CancelPending()
		case fyne.KeyF2:
			a.renameSelected()
		}
	})
	a.updateStatus()

	return container.NewBorder(toolbar, status, nil, nil, split)
}

func (a *App) updateStatus() {
	var racks, devices int
	a.session.View(func(p *model.Project) {
		racks, devices = len(p.Racks), p.DeviceCount()
	})
	a.statusLabel.SetText(fmt.Sprintf("%d racks · %d devices", racks, devices))

	title := "Rack Designer"
	if a.filePath != "" {
		title += " - " + filepath.Base(a.filePath)
	}
	if a.unsaved() {
		title += " *"
	}
	a.window.SetTitle(title)
}

func (a *App) unsaved() bool {
	return a.session.Revision() != a.savedRevision
}

func (a *App) markSaved() {
	a.savedRevision = a.session.Revision()
	a.updateStatus()
}

// ─── Context Menu ──────────────────────────────────────────

func (a *App) showContextMenu(elementID, rackID string, pos fyne.Position) {
	var items []*fyne.MenuItem
	if elementID != "" {
		items = append(items,
			fyne.NewMenuItem("Rename...", func() { a.report(a.session.RenameElement(elementID)) }),
			fyne.NewMenuItem("Colours...", func() { a.showColorDialog(elementID) }),
			fyne.NewMenuItem("Delete", func() { a.report(a.session.Delete(elementID)) }),
		)
	}
	if rackID != "" {
		if len(items) > 0 {
			items = append(items, fyne.NewMenuItemSeparator())
		}
		items = append(items,
			fyne.NewMenuItem("Rename Rack...", func() { a.report(a.session.RenameRack(rackID)) }),
			fyne.NewMenuItem("Delete Rack", func() {
				dialog.ShowConfirm("Delete Rack",
					"Delete this rack and everything in it?",
					func(ok bool) {
						if ok {
							a.report(a.session.DeleteRack(rackID))
						}
					}, a.window)
			}),
		)
	}
	if len(items) == 0 {
		items = append(items, fyne.NewMenuItem("Add Rack", func() { a.session.AddRack() }))
	}
	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), a.window.Canvas(), pos)
}

func (a *App) report(err error) {
	if err != nil {
		dialog.ShowError(err, a.window)
	}
}

func (a *App) renameSelected() {
	id := a.session.Selected()
	if id == "" {
		return
	}
	a.report(a.session.RenameElement(id))
}

func (a *App) deleteSelected() {
	if a.session.Selected() == "" {
		return
	}
	a.report(a.session.DeleteSelected())
}

func (a *App) showColorDialog(id string) {
	if id == "" {
		return
	}
	var fill, font, name string
	a.session.View(func(p *model.Project) {
		if el := p.Element(id); el != nil {
			fill, font, name = el.Color, el.FontColor, el.Name
		}
	})
	if name == "" {
		return
	}

	fillEntry := widget.NewEntry()
	fillEntry.SetText(fill)
	fillEntry.SetPlaceHolder("#RRGGBB (empty = default)")
	fontEntry := widget.NewEntry()
	fontEntry.SetText(font)
	fontEntry.SetPlaceHolder("#RRGGBB (empty = derived)")

	form := dialog.NewForm("Colours of "+name, "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Background", fillEntry),
			widget.NewFormItem("Text", fontEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			a.report(a.session.SetColors(id,
				strings.TrimSpace(fillEntry.Text), strings.TrimSpace(fontEntry.Text)))
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 220))
	form.Show()
}

// ─── Project Files ─────────────────────────────────────────

// restore opens path, or offers the auto-saved workspace when no path was
// given. An empty workspace starts with one rack.
func (a *App) restore(path string) {
	if path != "" {
		a.openPath(path)
		return
	}

	a.session.AddRack()
	a.markSaved()

	recovered, at, ok := project.Recover(a.autosavePath(), a.logger)
	if !ok || len(recovered.Racks) == 0 {
		return
	}
	when := "an earlier session"
	if !at.IsZero() {
		when = at.Local().Format("2006-01-02 15:04")
	}
	dialog.ShowConfirm("Recover Work",
		fmt.Sprintf("An auto-saved layout from %s was found (%d racks).\n\nRestore it?", when, len(recovered.Racks)),
		func(ok bool) {
			if !ok {
				return
			}
			a.session.Replace(recovered)
			a.filePath = ""
			a.updateStatus()
		},
		a.window,
	)
}

func (a *App) newProject() {
	reset := func() {
		a.session.Reset()
		a.session.AddRack()
		a.filePath = ""
		a.clearAutosave()
		a.markSaved()
	}
	if !a.unsaved() {
		reset()
		return
	}
	dialog.ShowConfirm("New Project", "Discard unsaved changes?", func(ok bool) {
		if ok {
			reset()
		}
	}, a.window)
}

func (a *App) openProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.load(reader.URI().Path(), data)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (a *App) openPath(path string) {
	p, err := project.Load(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.session.Replace(p)
	a.opened(path)
}

// load decodes data into the session. A document that fails to decode
// leaves the current workspace untouched.
func (a *App) load(path string, data []byte) {
	if err := a.session.LoadProject(data); err != nil {
		dialog.ShowError(fmt.Errorf("could not open %s: %w", filepath.Base(path), err), a.window)
		return
	}
	a.opened(path)
}

func (a *App) opened(path string) {
	a.filePath = path
	a.rememberRecent(path)
	a.markSaved()
}

func (a *App) rememberRecent(path string) {
	a.config.AddRecentProject(path)
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("could not save recent projects", "err", err)
	}
	a.SetupMenus()
}

func (a *App) saveProject() {
	if a.filePath == "" {
		a.saveProjectAs()
		return
	}
	a.writeProject(a.filePath)
}

func (a *App) saveProjectAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		a.writeProject(path)
	}, a.window)
	d.SetFileName("rack-layout.json")
	d.Show()
}

func (a *App) writeProject(path string) {
	if err := project.Save(path, a.session.Snapshot()); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.logger.Info("project saved", "path", path)
	a.filePath = path
	a.rememberRecent(path)
	a.clearAutosave()
	a.markSaved()
}

func (a *App) exportWith(defaultName string, write func(path string, p *model.Project) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path, a.session.Snapshot()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

// ─── Auto-Save ─────────────────────────────────────────────

// startAutosave (re)starts the background auto-saver with the configured
// interval. An interval of 0 disables it.
func (a *App) startAutosave() {
	if a.stopAutosave != nil {
		a.stopAutosave()
		a.stopAutosave = nil
	}
	if a.config.AutoSaveSeconds <= 0 {
		a.autosaveLabel.SetText("Auto-save off")
		return
	}

	a.autosaver = project.NewAutosaver(a.autosavePath(),
		time.Duration(a.config.AutoSaveSeconds)*time.Second, a.session, a.logger)
	a.autosaver.OnSave = func(at time.Time, err error) {
		if a.closing.Load() {
			return
		}
		fyne.Do(func() {
			if err != nil {
				a.autosaveLabel.SetText("Auto-save failed")
				return
			}
			a.autosaveLabel.SetText("Auto-saved " + at.Format("15:04:05"))
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.autosaver.Run(ctx)
	}()
	a.stopAutosave = func() {
		cancel()
		<-done
	}
}

func (a *App) clearAutosave() {
	if err := project.ClearAutosave(a.autosavePath()); err != nil {
		a.logger.Warn("could not clear auto-save", "err", err)
	}
}

func (a *App) applyTheme() {
	a.theme.SetPreference(a.config.Theme)
	a.app.Settings().SetTheme(a.theme)
}

func (a *App) quit() {
	if !a.unsaved() {
		a.window.Close()
		return
	}
	dialog.ShowConfirm("Quit",
		"You have unsaved changes. They are kept in the auto-save only.\n\nQuit anyway?",
		func(ok bool) {
			if ok {
				a.window.Close()
			}
		}, a.window)
}

// shutdown runs after the window closed: the auto-saver writes a final
// snapshot and the config is persisted.
func (a *App) shutdown() {
	a.closing.Store(true)
	if a.stopAutosave != nil {
		a.stopAutosave()
	}
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("could not save config", "err", err)
	}
}
