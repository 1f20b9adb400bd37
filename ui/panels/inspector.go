package panels

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"cover-studio/internal/app"
	"cover-studio/internal/layer"
	"cover-studio/pkg/colorutil"
)

// canonicalHex normalizes user-typed color input to "#rrggbb", keeping the
// previous value when the input does not parse.
func canonicalHex(v, prev string) string {
	fallback := colorutil.ParseHex(prev, colorutil.Black)
	return colorutil.FormatHex(colorutil.ParseHex(v, fallback))
}

// Inspector shows and edits the active layer's properties.
type Inspector struct {
	state *app.State
	box   *fyne.Container

	xEntry, yEntry, wEntry, hEntry, rotEntry *widget.Entry
	opacity                                  *widget.Slider
	aspectCheck                              *widget.Check

	textEntry *widget.Entry
	sizeEntry *widget.Entry
	boldCheck *widget.Check
	colorRow  *fyne.Container
	textGroup *fyne.Container

	fillEntry, strokeEntry *widget.Entry
	vectorGroup            *fyne.Container

	// Guard against reload feeding back into edit handlers.
	loading bool
}

// NewInspector creates the inspector bound to the application state.
func NewInspector(state *app.State) *Inspector {
	ins := &Inspector{state: state}

	ins.xEntry = ins.numberEntry(func(l *layer.Layer, v float64) { b := l.Bounds(); b.X = v; l.SetBounds(b) })
	ins.yEntry = ins.numberEntry(func(l *layer.Layer, v float64) { b := l.Bounds(); b.Y = v; l.SetBounds(b) })
	ins.wEntry = ins.numberEntry(func(l *layer.Layer, v float64) { b := l.Bounds(); b.Width = v; l.SetBounds(b) })
	ins.hEntry = ins.numberEntry(func(l *layer.Layer, v float64) { b := l.Bounds(); b.Height = v; l.SetBounds(b) })
	ins.rotEntry = ins.numberEntry(func(l *layer.Layer, v float64) { b := l.Bounds(); b.Rotation = v; l.SetBounds(b) })

	ins.opacity = widget.NewSlider(0, 1)
	ins.opacity.Step = 0.05
	ins.opacity.OnChangeEnded = func(v float64) {
		ins.edit(func(l *layer.Layer) { l.Opacity = v })
	}

	ins.aspectCheck = widget.NewCheck("Lock aspect ratio", func(v bool) {
		ins.edit(func(l *layer.Layer) { l.AspectLocked = v })
	})

	geometryGrid := container.NewGridWithColumns(2,
		widget.NewLabel("X"), ins.xEntry,
		widget.NewLabel("Y"), ins.yEntry,
		widget.NewLabel("Width"), ins.wEntry,
		widget.NewLabel("Height"), ins.hEntry,
		widget.NewLabel("Rotation"), ins.rotEntry,
	)

	ins.textEntry = widget.NewMultiLineEntry()
	ins.textEntry.OnSubmitted = func(v string) {
		ins.edit(func(l *layer.Layer) { l.Text = v })
	}
	ins.sizeEntry = ins.numberEntry(func(l *layer.Layer, v float64) {
		if v > 0 {
			l.FontSize = v
		}
	})
	ins.boldCheck = widget.NewCheck("Bold", func(v bool) {
		ins.edit(func(l *layer.Layer) { l.FontBold = v })
	})
	colorEntry := widget.NewEntry()
	colorEntry.OnSubmitted = func(v string) {
		ins.edit(func(l *layer.Layer) { l.Color = canonicalHex(v, l.Color) })
	}
	ins.colorRow = container.NewGridWithColumns(2, widget.NewLabel("Color"), colorEntry)
	ins.textGroup = container.NewVBox(
		widget.NewLabel("Text"),
		ins.textEntry,
		container.NewGridWithColumns(2, widget.NewLabel("Font size"), ins.sizeEntry),
		ins.boldCheck,
		ins.colorRow,
	)

	ins.fillEntry = widget.NewEntry()
	ins.fillEntry.OnSubmitted = func(v string) {
		ins.edit(func(l *layer.Layer) { l.Fill = canonicalHex(v, l.Fill) })
	}
	ins.strokeEntry = widget.NewEntry()
	ins.strokeEntry.OnSubmitted = func(v string) {
		ins.edit(func(l *layer.Layer) { l.Stroke = canonicalHex(v, l.Stroke) })
	}
	ins.vectorGroup = container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Fill"), ins.fillEntry,
			widget.NewLabel("Stroke"), ins.strokeEntry,
		),
	)

	ins.box = container.NewVBox(
		widget.NewLabel("Inspector"),
		geometryGrid,
		container.NewGridWithColumns(2, widget.NewLabel("Opacity"), ins.opacity),
		ins.aspectCheck,
		widget.NewSeparator(),
		ins.textGroup,
		ins.vectorGroup,
	)

	state.On(app.EventSelectionChanged, func(interface{}) { ins.Reload() })
	state.On(app.EventLayersChanged, func(interface{}) { ins.Reload() })

	ins.Reload()
	return ins
}

// Container returns the panel for embedding in layouts.
func (ins *Inspector) Container() fyne.CanvasObject {
	return container.NewVScroll(ins.box)
}

// Reload refreshes every field from the active layer.
func (ins *Inspector) Reload() {
	ins.loading = true
	defer func() { ins.loading = false }()

	l := ins.state.ActiveLayer()
	if l == nil {
		ins.box.Hide()
		return
	}
	ins.box.Show()

	b := l.Bounds()
	ins.xEntry.SetText(formatNum(b.X))
	ins.yEntry.SetText(formatNum(b.Y))
	ins.wEntry.SetText(formatNum(b.Width))
	ins.hEntry.SetText(formatNum(b.Height))
	ins.rotEntry.SetText(formatNum(b.NormalizedRotation()))
	ins.opacity.SetValue(l.Opacity)
	ins.aspectCheck.SetChecked(l.AspectLocked)

	switch l.Kind {
	case layer.KindText:
		ins.textGroup.Show()
		ins.vectorGroup.Hide()
		ins.textEntry.SetText(l.Text)
		ins.sizeEntry.SetText(formatNum(l.FontSize))
		ins.boldCheck.SetChecked(l.FontBold)
	case layer.KindVector:
		ins.textGroup.Hide()
		ins.vectorGroup.Show()
		ins.fillEntry.SetText(l.Fill)
		ins.strokeEntry.SetText(l.Stroke)
	default:
		ins.textGroup.Hide()
		ins.vectorGroup.Hide()
	}
}

// numberEntry builds an entry that applies a numeric edit on submit.
func (ins *Inspector) numberEntry(apply func(l *layer.Layer, v float64)) *widget.Entry {
	e := widget.NewEntry()
	e.OnSubmitted = func(text string) {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return
		}
		ins.edit(func(l *layer.Layer) { apply(l, v) })
	}
	return e
}

func (ins *Inspector) edit(apply func(l *layer.Layer)) {
	if ins.loading {
		return
	}
	id := ins.state.ActiveID()
	if id == "" {
		return
	}
	ins.state.EditLayer(id, apply)
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
