// Package canvas provides the interactive design canvas with pan, zoom,
// selection, and transform gestures.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"cover-studio/internal/app"
	"cover-studio/internal/render"
	"cover-studio/internal/selection"
	"cover-studio/internal/transform"
	"cover-studio/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// DesignCanvas displays the composition and routes pointer gestures to the
// application state.
type DesignCanvas struct {
	widget.BaseWidget

	state    *app.State
	renderer *render.Renderer

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Gesture modifiers captured at mouse-down. Fyne only reports key
	// modifiers on mouse events, so a drag carries the modifiers it
	// started with.
	dragMods transform.Modifiers

	// snapDefault makes rotation snap without holding the modifier.
	snapDefault bool

	// Container
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	// Callbacks
	onZoomChange func(zoom float64)
}

// NewDesignCanvas creates the canvas bound to the application state.
func NewDesignCanvas(state *app.State) *DesignCanvas {
	dc := &DesignCanvas{
		state:    state,
		renderer: render.NewRenderer(),
		zoom:     1.0,
	}

	dc.raster = fynecanvas.NewRaster(dc.draw)
	dc.raster.ScaleMode = fynecanvas.ImageScalePixels

	dc.content = newDraggableContent(dc, dc.raster)
	dc.scroll = newZoomScroll(dc.content, dc)

	dc.ExtendBaseWidget(dc)
	dc.updateContentSize()

	state.On(app.EventLayersChanged, func(interface{}) { dc.Refresh() })
	state.On(app.EventSelectionChanged, func(interface{}) { dc.Refresh() })
	state.On(app.EventProjectLoaded, func(interface{}) {
		dc.updateContentSize()
		dc.Refresh()
	})

	return dc
}

// Container returns the canvas container for embedding in layouts.
func (dc *DesignCanvas) Container() fyne.CanvasObject {
	return dc.scroll
}

// SetZoom sets the zoom level.
func (dc *DesignCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	dc.zoom = zoom
	dc.updateContentSize()

	if dc.onZoomChange != nil {
		dc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (dc *DesignCanvas) Zoom() float64 {
	return dc.zoom
}

// ZoomIn increases the zoom level.
func (dc *DesignCanvas) ZoomIn() {
	dc.SetZoom(dc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (dc *DesignCanvas) ZoomOut() {
	dc.SetZoom(dc.zoom / zoomStep)
}

// FitToWindow adjusts zoom so the whole canvas fits the visible area.
func (dc *DesignCanvas) FitToWindow() {
	viewSize := dc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}
	if dc.state.Canvas.Width <= 0 || dc.state.Canvas.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / dc.state.Canvas.Width
	zoomY := float64(viewSize.Height) / dc.state.Canvas.Height
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	dc.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetSnapAngles toggles rotation snapping without the keyboard modifier.
func (dc *DesignCanvas) SetSnapAngles(snap bool) {
	dc.snapDefault = snap
}

// SnapAngles reports whether default rotation snapping is on.
func (dc *DesignCanvas) SnapAngles() bool {
	return dc.snapDefault
}

// OnZoomChange sets a callback for zoom changes.
func (dc *DesignCanvas) OnZoomChange(callback func(zoom float64)) {
	dc.onZoomChange = callback
}

// Refresh refreshes the canvas display.
func (dc *DesignCanvas) Refresh() {
	dc.raster.Refresh()
}

// viewport describes the current screen-to-canvas mapping. The raster covers
// exactly the zoomed canvas, so the origin is always zero.
func (dc *DesignCanvas) viewport() transform.Viewport {
	return transform.Viewport{Zoom: dc.zoom}
}

// updateContentSize resizes the raster to the zoomed canvas.
func (dc *DesignCanvas) updateContentSize() {
	width := float32(dc.state.Canvas.Width * dc.zoom)
	height := float32(dc.state.Canvas.Height * dc.zoom)
	if width < 1 || height < 1 {
		width, height = 400, 300
	}
	dc.imgSize = fyne.NewSize(width, height)

	dc.raster.SetMinSize(dc.imgSize)
	dc.raster.Resize(dc.imgSize)
	if dc.content != nil {
		dc.content.Resize(dc.imgSize)
		dc.content.Refresh()
	}
	dc.raster.Refresh()
	if dc.scroll != nil {
		dc.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (dc *DesignCanvas) draw(w, h int) image.Image {
	output := dc.renderer.Render(dc.state.Layers(), dc.state.Canvas, dc.zoom)

	for _, id := range dc.state.SelectedIDs() {
		if l, ok := dc.state.Layers().Get(id); ok {
			dc.drawSelectionOverlay(output, l, id == dc.state.ActiveID())
		}
	}

	// The raster may be larger than the rendered canvas during layout
	// settling; pad rather than stretch.
	if output.Rect.Dx() != w || output.Rect.Dy() != h {
		padded := image.NewRGBA(image.Rect(0, 0, w, h))
		copyImage(padded, output)
		return padded
	}
	return output
}

func copyImage(dst, src *image.RGBA) {
	w := src.Rect.Dx()
	if dst.Rect.Dx() < w {
		w = dst.Rect.Dx()
	}
	h := src.Rect.Dy()
	if dst.Rect.Dy() < h {
		h = dst.Rect.Dy()
	}
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
	}
}

// handleMouseDown routes a press to selection or opens a gesture.
func (dc *DesignCanvas) handleMouseDown(screen geometry.Point2D, mods transform.Modifiers, toggle bool) {
	mods.SnapAngle = mods.SnapAngle || dc.snapDefault
	dc.dragMods = mods

	// Handles on the active layer take priority over layer picking so a
	// handle overlapping another layer still resizes.
	if active := dc.state.ActiveLayer(); active != nil && !active.Locked {
		if onRotateHandle(active, screen, dc.zoom) {
			dc.state.BeginRotate(active.ID, screen)
			return
		}
		if h, ok := handleAt(active, screen, dc.zoom); ok {
			dc.state.BeginResize(active.ID, screen, h)
			return
		}
	}

	mode := selection.ModeReplace
	if toggle {
		mode = selection.ModeToggle
	}
	canvasPt := dc.viewport().ScreenToCanvas(screen)
	if picked := dc.state.SelectAt(canvasPt, mode); picked != nil && !toggle {
		dc.state.BeginMove(picked.ID, screen)
	}
}

// zoomScroll wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *DesignCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *DesignCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	// Use wheel for zoom, not scroll
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *DesignCanvas
	raster *fynecanvas.Raster
}

var _ desktop.Mouseable = (*draggableContent)(nil)
var _ fyne.Draggable = (*draggableContent)(nil)

func newDraggableContent(dc *DesignCanvas, raster *fynecanvas.Raster) *draggableContent {
	c := &draggableContent{
		canvas: dc,
		raster: raster,
	}
	c.ExtendBaseWidget(c)
	return c
}

func (c *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: c}
}

func (c *draggableContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

// contentPos converts an event position to content coordinates. Event
// positions are relative to the viewport, so the scroll offset is added back.
func (c *draggableContent) contentPos(pos fyne.Position) geometry.Point2D {
	offset := c.canvas.scroll.Offset()
	return geometry.Point2D{
		X: float64(pos.X + offset.X),
		Y: float64(pos.Y + offset.Y),
	}
}

func (c *draggableContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	mods := transform.Modifiers{
		SnapAngle: ev.Modifier&fyne.KeyModifierShift != 0,
		KeepRatio: ev.Modifier&fyne.KeyModifierShift != 0,
	}
	toggle := ev.Modifier&fyne.KeyModifierControl != 0
	c.canvas.handleMouseDown(c.contentPos(ev.Position), mods, toggle)
}

func (c *draggableContent) MouseUp(ev *desktop.MouseEvent) {
	// Drag completion is handled by DragEnd; a plain click leaves a
	// no-movement session that commits nothing.
	if c.canvas.state.HasSession() {
		c.canvas.state.PointerUp()
	}
}

func (c *draggableContent) Dragged(ev *fyne.DragEvent) {
	if !c.canvas.state.HasSession() {
		return
	}
	c.canvas.state.PointerMove(c.contentPos(ev.Position), c.canvas.dragMods, c.canvas.viewport())
}

func (c *draggableContent) DragEnd() {
	if c.canvas.state.HasSession() {
		c.canvas.state.PointerUp()
	}
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// CreateRenderer implements fyne.Widget.
func (dc *DesignCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &designCanvasRenderer{canvas: dc}
}

type designCanvasRenderer struct {
	canvas *DesignCanvas
}

func (r *designCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *designCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *designCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *designCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *designCanvasRenderer) Destroy() {}
