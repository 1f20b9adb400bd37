// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"cover-studio/internal/app"
	"cover-studio/internal/export"
	"cover-studio/internal/layer"
	"cover-studio/internal/project"
	"cover-studio/internal/version"
	"cover-studio/pkg/geometry"
	"cover-studio/ui/canvas"
	"cover-studio/ui/panels"
	"cover-studio/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app         fyne.App
	state       *app.State
	prefs       *prefs.Prefs
	canvas      *canvas.DesignCanvas
	layersPanel *panels.LayersPanel
	inspector   *panels.Inspector
	statusBar   *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Cover Studio")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.restoreWindowState()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewDesignCanvas(mw.state)
	mw.layersPanel = panels.NewLayersPanel(mw.state)
	mw.inspector = panels.NewInspector(mw.state)
	mw.statusBar = widget.NewLabel("Ready")

	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", zoom*100))
		mw.prefs.SetFloat(prefs.KeyZoom, zoom)
	})

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil, nil, nil,
		mw.canvas.Container(),
	)

	sideTabs := container.NewAppTabs(
		container.NewTabItem("Layers", mw.layersPanel.Container()),
		container.NewTabItem("Inspector", mw.inspector.Container()),
	)

	split := container.NewHSplit(sideTabs, canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar), // bottom
		nil, nil,
		split,
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with insert and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Text", mw.onAddText),
		widget.NewButton("Image", mw.onAddImage),
		widget.NewButton("Rect", func() { mw.onAddShape(layer.ShapeRect) }),
		widget.NewButton("Ellipse", func() { mw.onAddShape(layer.ShapeEllipse) }),
		widget.NewButton("Line", func() { mw.onAddShape(layer.ShapeLine) }),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Fit", mw.canvas.FitToWindow),
		widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) }),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItem("Export PDF...", mw.onExportPDF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.state.Undo),
		fyne.NewMenuItem("Redo", mw.state.Redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Duplicate", mw.state.DuplicateSelection),
		fyne.NewMenuItem("Delete", mw.state.DeleteSelection),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Group", mw.onGroup),
		fyne.NewMenuItem("Ungroup", mw.onUngroup),
	)

	layerMenu := fyne.NewMenu("Layer",
		fyne.NewMenuItem("Raise", mw.state.RaiseSelection),
		fyne.NewMenuItem("Lower", mw.state.LowerSelection),
		fyne.NewMenuItem("Bring to Front", mw.state.BringToFront),
		fyne.NewMenuItem("Send to Back", mw.state.SendToBack),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Snap Rotation", mw.onToggleSnapRotation),
	)

	canvasMenu := fyne.NewMenu("Canvas",
		fyne.NewMenuItem("1600 x 900 (video)", func() { mw.state.SetCanvas(1600, 900, "") }),
		fyne.NewMenuItem("1600 x 2560 (book)", func() { mw.state.SetCanvas(1600, 2560, "") }),
		fyne.NewMenuItem("3000 x 3000 (album)", func() { mw.state.SetCanvas(3000, 3000, "") }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, layerMenu, viewMenu, canvasMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupShortcuts installs keyboard shortcuts on the window canvas.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()

	bind := func(key fyne.KeyName, mod fyne.KeyModifier, action func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) {
			action()
		})
	}

	bind(fyne.KeyZ, fyne.KeyModifierControl, mw.state.Undo)
	bind(fyne.KeyZ, fyne.KeyModifierControl|fyne.KeyModifierShift, mw.state.Redo)
	bind(fyne.KeyY, fyne.KeyModifierControl, mw.state.Redo)
	bind(fyne.KeyS, fyne.KeyModifierControl, func() { mw.onSaveProject() })
	bind(fyne.KeyD, fyne.KeyModifierControl, mw.state.DuplicateSelection)
	bind(fyne.KeyG, fyne.KeyModifierControl, mw.onGroup)
	bind(fyne.KeyG, fyne.KeyModifierControl|fyne.KeyModifierShift, mw.onUngroup)

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.state.DeleteSelection()
		case fyne.KeyEscape:
			mw.state.CancelGesture()
			mw.canvas.Refresh()
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok && path != "" {
			mw.SetTitle("Cover Studio - " + filepath.Base(path))
			mw.updateStatus("Project loaded: " + path)
		} else {
			mw.SetTitle("Cover Studio")
			mw.updateStatus("New project")
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Cover Studio - " + filepath.Base(path))
			mw.updateStatus("Saved: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventHistoryChanged, func(interface{}) {
		mw.canvas.Refresh()
	})
}

// SavePreferences flushes window state and preferences to disk.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
	}
}

// SavePreferencesIfChanged writes preferences only when dirty.
func (mw *MainWindow) SavePreferencesIfChanged() {
	_ = mw.prefs.SaveIfChanged()
}

// restoreWindowState applies persisted window size and zoom.
func (mw *MainWindow) restoreWindowState() {
	w := mw.prefs.Float(prefs.KeyWindowWidth, 1280)
	h := mw.prefs.Float(prefs.KeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))

	if zoom := mw.prefs.Float(prefs.KeyZoom, 0); zoom > 0 {
		mw.canvas.SetZoom(zoom)
	}
	mw.canvas.SetSnapAngles(mw.prefs.Bool(prefs.KeySnapAngles, false))
}

func (mw *MainWindow) onToggleSnapRotation() {
	snap := !mw.canvas.SnapAngles()
	mw.canvas.SetSnapAngles(snap)
	mw.prefs.SetBool(prefs.KeySnapAngles, snap)
	if snap {
		mw.updateStatus("Rotation snapping on")
	} else {
		mw.updateStatus("Rotation snapping off")
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onNewProject() {
	mw.state.NewProject()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastProject, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{project.Extension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != project.Extension {
			path += project.Extension
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastProject, path)
	}, mw.Window)
	fd.SetFileName("cover" + project.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	mw.exportWith(".png", func(path string) error {
		return export.PNG(mw.state.Layers(), mw.state.Canvas, path, export.Options{Scale: 1})
	})
}

func (mw *MainWindow) onExportPDF() {
	mw.exportWith(".pdf", func(path string) error {
		return export.PDF(mw.state.Layers(), mw.state.Canvas, path, export.Options{Scale: 1})
	})
}

func (mw *MainWindow) exportWith(ext string, write func(path string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ext {
			path += ext
		}
		mw.saveLastDir(path)
		if err := write(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported: " + path)
	}, mw.Window)
	fd.SetFileName("cover" + ext)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAddText() {
	mw.state.AddTextLayer("New text", mw.canvasCenter())
}

func (mw *MainWindow) onAddShape(shape string) {
	mw.state.AddVectorLayer(shape, mw.canvasCenter())
}

func (mw *MainWindow) onAddImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.state.AddImageLayer(path, mw.canvasCenter(), geometry.Size{Width: 400, Height: 300})
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// canvasCenter picks an insert position slightly off the canvas center so
// stacked inserts stay distinguishable.
func (mw *MainWindow) canvasCenter() geometry.Point2D {
	n := float64(mw.state.Layers().Len() % 5)
	return geometry.Point2D{
		X: mw.state.Canvas.Width/2 - 100 + n*20,
		Y: mw.state.Canvas.Height/2 - 50 + n*20,
	}
}

func (mw *MainWindow) onGroup() {
	if err := mw.state.GroupSelection(); err != nil {
		mw.updateStatus("Group: " + err.Error())
	}
}

func (mw *MainWindow) onUngroup() {
	if err := mw.state.UngroupActive(); err != nil {
		mw.updateStatus("Ungroup: " + err.Error())
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Cover Studio",
		fmt.Sprintf("Cover Studio v%s\n\n"+
			"A cover image design tool.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
