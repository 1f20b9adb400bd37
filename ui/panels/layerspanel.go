// Package panels provides the side panels: layer list and inspector.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"cover-studio/internal/app"
	"cover-studio/internal/layer"
	"cover-studio/internal/selection"
)

// LayersPanel lists layers topmost-first with visibility and lock toggles.
type LayersPanel struct {
	state *app.State
	list  *widget.List
	ids   []string // topmost first
	box   fyne.CanvasObject
}

// NewLayersPanel creates the layers panel bound to the application state.
func NewLayersPanel(state *app.State) *LayersPanel {
	lp := &LayersPanel{state: state}

	lp.list = widget.NewList(
		func() int { return len(lp.ids) },
		func() fyne.CanvasObject {
			visBtn := widget.NewButtonWithIcon("", theme.VisibilityIcon(), nil)
			lockBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), nil)
			label := widget.NewLabel("layer")
			return container.NewBorder(nil, nil, nil, container.NewHBox(visBtn, lockBtn), label)
		},
		lp.updateRow,
	)
	lp.list.OnSelected = func(id widget.ListItemID) {
		if id >= 0 && id < len(lp.ids) {
			state.SelectLayer(lp.ids[id], selection.ModeReplace)
		}
	}

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("", theme.MoveUpIcon(), state.RaiseSelection),
		widget.NewButtonWithIcon("", theme.MoveDownIcon(), state.LowerSelection),
		widget.NewButtonWithIcon("", theme.ContentCopyIcon(), state.DuplicateSelection),
		widget.NewButtonWithIcon("", theme.DeleteIcon(), state.DeleteSelection),
	)

	lp.box = container.NewBorder(
		widget.NewLabel("Layers"), // top
		toolbar,                   // bottom
		nil, nil,
		lp.list,
	)

	state.On(app.EventLayersChanged, func(interface{}) { lp.Reload() })
	state.On(app.EventSelectionChanged, func(interface{}) { lp.syncSelection() })

	lp.Reload()
	return lp
}

// Container returns the panel for embedding in layouts.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.box
}

// Reload rebuilds the row list from the store.
func (lp *LayersPanel) Reload() {
	ordered := lp.state.OrderedLayers()
	lp.ids = lp.ids[:0]
	// Topmost first: walk paint order backwards, skipping group members
	// so the list mirrors what the user drags on the canvas.
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].ParentID != "" {
			continue
		}
		lp.ids = append(lp.ids, ordered[i].ID)
	}
	lp.list.Refresh()
	lp.syncSelection()
}

func (lp *LayersPanel) syncSelection() {
	active := lp.state.ActiveID()
	for i, id := range lp.ids {
		if id == active {
			lp.list.Select(i)
			return
		}
	}
	lp.list.UnselectAll()
}

func (lp *LayersPanel) updateRow(idx widget.ListItemID, item fyne.CanvasObject) {
	if idx < 0 || idx >= len(lp.ids) {
		return
	}
	l, ok := lp.state.Layers().Get(lp.ids[idx])
	if !ok {
		return
	}

	border := item.(*fyne.Container)
	var label *widget.Label
	var visBtn, lockBtn *widget.Button
	for _, obj := range border.Objects {
		switch o := obj.(type) {
		case *widget.Label:
			label = o
		case *fyne.Container:
			visBtn = o.Objects[0].(*widget.Button)
			lockBtn = o.Objects[1].(*widget.Button)
		}
	}
	if label == nil || visBtn == nil || lockBtn == nil {
		return
	}

	label.SetText(layerTitle(l))

	if l.Visible {
		visBtn.SetIcon(theme.VisibilityIcon())
	} else {
		visBtn.SetIcon(theme.VisibilityOffIcon())
	}
	id := l.ID
	visBtn.OnTapped = func() {
		lp.state.EditLayer(id, func(l *layer.Layer) { l.Visible = !l.Visible })
	}

	if l.Locked {
		lockBtn.SetIcon(theme.ConfirmIcon())
	} else {
		lockBtn.SetIcon(theme.RadioButtonIcon())
	}
	lockBtn.OnTapped = func() {
		lp.state.EditLayer(id, func(l *layer.Layer) { l.Locked = !l.Locked })
	}
}

// layerTitle produces a short human-readable row title.
func layerTitle(l *layer.Layer) string {
	switch l.Kind {
	case layer.KindText:
		text := l.Text
		if len(text) > 20 {
			text = text[:20] + "…"
		}
		if text == "" {
			text = "(empty)"
		}
		return "T  " + text
	case layer.KindImage:
		return "I  " + shortPath(l.Path)
	case layer.KindGroup:
		return fmt.Sprintf("G  group (%d)", len(l.Children))
	default:
		return "S  " + l.Shape
	}
}

func shortPath(path string) string {
	if path == "" {
		return "(no image)"
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
