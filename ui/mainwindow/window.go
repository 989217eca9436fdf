// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"tagdraw/internal/annotation"
	"tagdraw/internal/config"
	"tagdraw/internal/drawer"
	tdimage "tagdraw/internal/image"
	"tagdraw/internal/interact"
	"tagdraw/internal/project"
	"tagdraw/internal/render"
	"tagdraw/internal/version"
	"tagdraw/ui/canvas"
	"tagdraw/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	appTitle = "TagDraw"

	// minBoxSize is the smallest dragged box, in image pixels, that becomes
	// an annotation.
	minBoxSize = 3
)

var palette = []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff", "#00ffff"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	prefs  *prefs.Prefs
	logger *slog.Logger

	canvas     *canvas.AnnotationCanvas
	statusBar  *widget.Label
	scaleLabel *widget.Label
	labelCheck *widget.Check
	colorPick  *widget.Select
	labelEntry *widget.Entry

	// Guarded by the canvas lock: touched only inside Do or drawer callbacks.
	selected    *annotation.Annotation
	showLabels  bool
	color       string
	label       string
	imagePath   string
	projectPath string
}

// New creates the main window.
func New(fyneApp fyne.App, cfg *config.Config, p *prefs.Prefs, logger *slog.Logger) *MainWindow {
	mw := &MainWindow{
		Window: fyneApp.NewWindow(appTitle),
		app:    fyneApp,
		prefs:  p,
		logger: logger,
	}
	mw.color, mw.label, mw.showLabels = p.DrawDefaults()

	mw.canvas = canvas.NewAnnotationCanvas(cfg.DrawerOptions(logger))
	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	w, h := p.WindowSize()
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
	mw.SetCloseIntercept(func() {
		mw.SavePreferences()
		mw.Close()
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")
	mw.scaleLabel = widget.NewLabel("100%")

	toolbar := mw.createToolbar()

	content := container.NewBorder(
		toolbar,
		container.NewPadded(container.NewBorder(nil, nil, nil, mw.scaleLabel, mw.statusBar)),
		nil,
		nil,
		mw.canvas,
	)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom, label and drawing controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	mw.labelCheck = widget.NewCheck("Labels", mw.onShowLabels)
	mw.labelCheck.SetChecked(mw.showLabels)

	mw.colorPick = widget.NewSelect(palette, func(c string) {
		mw.canvas.Do(func(*drawer.Drawer) { mw.color = c })
	})
	mw.colorPick.SetSelected(mw.color)

	mw.labelEntry = widget.NewEntry()
	mw.labelEntry.SetText(mw.label)
	mw.labelEntry.OnChanged = func(s string) {
		mw.canvas.Do(func(*drawer.Drawer) { mw.label = s })
	}

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		actualBtn,
		widget.NewSeparator(),
		mw.labelCheck,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		mw.colorPick,
		widget.NewLabel("Label:"),
		container.NewGridWrap(fyne.NewSize(160, mw.labelEntry.MinSize().Height), mw.labelEntry),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Fill Selected", func() { mw.withSelected(mw.fill) }),
		fyne.NewMenuItem("Unfill Selected", func() { mw.withSelected(mw.unfill) }),
		fyne.NewMenuItem("Rename Selected...", mw.onRename),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", func() { mw.withSelected(mw.remove) }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers drawer callbacks and window key routing.
// Drawer callbacks run under the canvas lock.
func (mw *MainWindow) setupEventHandlers() {
	mw.canvas.Do(func(d *drawer.Drawer) {
		d.OnDefaultDraggingEnd(func(ev interact.DragEvent) {
			defer ev.Clear()
			r := ev.Rect()
			if r.Width < minBoxSize || r.Height < minBoxSize {
				mw.selectAnnotation(d, nil)
				return
			}
			i, err := d.AppendRect(r.X, r.Y, r.X+r.Width, r.Y+r.Height, mw.color, mw.label)
			if err != nil {
				mw.logger.Error("append failed", "error", err)
				return
			}
			if mw.showLabels {
				_ = d.SetLabelVisible(drawer.At(i), true)
			}
			mw.setStatus(fmt.Sprintf("Added %q (%d annotations)", mw.label, d.Len()))
		})

		d.OnShapeClick(func(a *annotation.Annotation, _ *render.DrawableSet) {
			mw.selectAnnotation(d, a)
		})
		d.OnShapeHover(func(a *annotation.Annotation, _ *render.DrawableSet) {
			mw.setStatus(a.Label)
		})
		d.OnShapeLeave(func(*annotation.Annotation, *render.DrawableSet) {
			mw.setStatus("")
		})
		d.OnTagAreaChange(func(a *annotation.Annotation, _ *render.DrawableSet) {
			b := a.Geometry.Bounds()
			mw.setStatus(fmt.Sprintf("Resized %q to %.0fx%.0f", a.Label, b.Width, b.Height))
		})
		d.OnScaleChange(func(scale float64) {
			mw.scaleLabel.SetText(fmt.Sprintf("%.0f%%", scale*100))
		})
	})

	typed := func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.withSelected(mw.remove)
		case fyne.KeyEscape:
			mw.canvas.Do(func(d *drawer.Drawer) { mw.selectAnnotation(d, nil) })
		}
	}
	mw.canvas.OnTypedKey(typed)
	mw.Canvas().SetOnTypedKey(typed)

	if dc, ok := mw.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(mw.canvas.KeyDown)
		dc.SetOnKeyUp(mw.canvas.KeyUp)
	}
}

// selectAnnotation moves the selection to a, or clears it when a is nil.
func (mw *MainWindow) selectAnnotation(d *drawer.Drawer, a *annotation.Annotation) {
	if mw.selected == a {
		return
	}
	if i := indexOf(d, mw.selected); i >= 0 {
		_ = d.DeselectTagArea(drawer.At(i))
	}
	mw.selected = nil
	if i := indexOf(d, a); i >= 0 {
		if err := d.SelectTagArea(drawer.At(i)); err == nil {
			mw.selected = a
		}
	}
}

func indexOf(d *drawer.Drawer, a *annotation.Annotation) int {
	if a == nil {
		return -1
	}
	for i, r := range d.DataList() {
		if r == a {
			return i
		}
	}
	return -1
}

// withSelected runs fn on the selected annotation's index.
func (mw *MainWindow) withSelected(fn func(d *drawer.Drawer, i int) error) {
	mw.canvas.Do(func(d *drawer.Drawer) {
		i := indexOf(d, mw.selected)
		if i < 0 {
			mw.setStatus("Nothing selected")
			return
		}
		if err := fn(d, i); err != nil {
			mw.logger.Error("edit failed", "index", i, "error", err)
		}
	})
}

func (mw *MainWindow) fill(d *drawer.Drawer, i int) error {
	return d.FillTagArea(drawer.At(i))
}

func (mw *MainWindow) unfill(d *drawer.Drawer, i int) error {
	return d.UnfillTagArea(drawer.At(i))
}

func (mw *MainWindow) remove(d *drawer.Drawer, i int) error {
	if err := d.RemoveDataByIndex(i); err != nil {
		return err
	}
	mw.selected = nil
	mw.setStatus(fmt.Sprintf("Deleted (%d annotations)", d.Len()))
	return nil
}

// setStatus updates the status bar text.
func (mw *MainWindow) setStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.LastDir()
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// SavePreferences stores window size and drawing defaults.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetWindowSize(float64(size.Width), float64(size.Height))
	mw.canvas.Do(func(*drawer.Drawer) {
		mw.prefs.SetDrawDefaults(mw.color, mw.label, mw.showLabels)
	})
	if err := mw.prefs.Save(); err != nil {
		mw.logger.Error("saving preferences failed", "path", mw.prefs.Path(), "error", err)
	}
}

// ApplyConfig applies a reloaded configuration.
func (mw *MainWindow) ApplyConfig(cfg *config.Config) {
	mw.canvas.Do(func(d *drawer.Drawer) {
		d.Apply(cfg.DrawerOptions(mw.logger))
	})
	mw.setStatus("Configuration reloaded")
}

// OpenImage loads path as the background image.
func (mw *MainWindow) OpenImage(path string) error {
	bg, err := tdimage.Load(path)
	if err != nil {
		return err
	}
	mw.canvas.Do(func(d *drawer.Drawer) {
		d.SetImage(bg.Image)
		mw.imagePath = path
	})
	mw.prefs.RememberFile(prefs.KeyLastImage, path)
	mw.SetTitle(appTitle + " - " + bg.Name())

	status := fmt.Sprintf("%s: %dx%d %s", bg.Name(), bg.Width(), bg.Height(), bg.Format)
	if bg.DPI > 0 {
		status += fmt.Sprintf(", %.0f dpi", bg.DPI)
	}
	mw.setStatus(status)
	mw.logger.Info("image loaded", "path", path, "width", bg.Width(), "height", bg.Height())
	return nil
}

// OpenProject loads a project file: its image and annotations.
func (mw *MainWindow) OpenProject(path string) error {
	p, err := project.Load(path)
	if err != nil {
		return err
	}
	if img := p.ImagePathFor(path); img != "" {
		if err := mw.OpenImage(img); err != nil {
			mw.logger.Warn("project image missing", "path", img, "error", err)
		}
	}

	var setErr error
	mw.canvas.Do(func(d *drawer.Drawer) {
		mw.selected = nil
		if setErr = d.SetDataList(p.Annotations); setErr != nil {
			return
		}
		d.RedrawAll()
		for i, a := range d.DataList() {
			if a.Selected {
				mw.selected = a
			}
			if mw.showLabels && !a.LabelVisible {
				_ = d.SetLabelVisible(drawer.At(i), true)
			}
		}
		mw.projectPath = path
	})
	if setErr != nil {
		return setErr
	}

	mw.prefs.RememberFile(prefs.KeyLastProject, path)
	mw.SetTitle(appTitle + " - " + filepath.Base(path))
	mw.setStatus(fmt.Sprintf("Project loaded: %d annotations", len(p.Annotations)))
	return nil
}

// SaveProject writes the image reference and annotations to path.
func (mw *MainWindow) SaveProject(path string) error {
	name := filepath.Base(path)
	p := project.New(name[:len(name)-len(filepath.Ext(name))])
	mw.canvas.Do(func(d *drawer.Drawer) {
		if mw.imagePath != "" {
			p.SetImage(path, mw.imagePath)
		}
		p.SetAnnotations(d.DataList())
	})
	if err := p.Save(path); err != nil {
		return err
	}
	mw.canvas.Do(func(*drawer.Drawer) { mw.projectPath = path })
	mw.prefs.RememberFile(prefs.KeyLastProject, path)
	mw.setStatus("Project saved: " + path)
	return nil
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.OpenImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(tdimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.OpenProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{project.Extension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	var path string
	mw.canvas.Do(func(*drawer.Drawer) { path = mw.projectPath })
	if path == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.SaveProject(path); err != nil {
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
		if err := mw.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("annotations" + project.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onRename() {
	var current string
	mw.canvas.Do(func(*drawer.Drawer) {
		if mw.selected != nil {
			current = mw.selected.Label
		}
	})
	entry := widget.NewEntry()
	entry.SetText(current)
	dialog.ShowForm("Rename", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Label", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			mw.withSelected(func(d *drawer.Drawer, i int) error {
				return d.SetLabelText(drawer.At(i), entry.Text)
			})
		}, mw.Window)
}

func (mw *MainWindow) onShowLabels(show bool) {
	mw.canvas.Do(func(d *drawer.Drawer) {
		mw.showLabels = show
		for i := 0; i < d.Len(); i++ {
			if err := d.SetLabelVisible(drawer.At(i), show); err != nil {
				mw.logger.Debug("label toggle skipped", "index", i, "error", err)
			}
		}
	})
}

func (mw *MainWindow) onZoomIn() {
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onActualSize() {
	mw.canvas.Do(func(d *drawer.Drawer) {
		if err := d.SetCanvasScale(1); err != nil {
			mw.logger.Error("reset zoom failed", "error", err)
		}
	})
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Draw, label and edit rectangle and polygon\n"+
			"annotations over images.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
