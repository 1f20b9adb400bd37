package canvas

import (
	"image"
	"image/color"
	"math"

	"cover-studio/internal/layer"
	"cover-studio/internal/transform"
	"cover-studio/pkg/colorutil"
	"cover-studio/pkg/geometry"
)

const (
	handleSize       = 8.0  // screen pixels, square side
	handleHitRadius  = 6.0  // screen pixels
	rotateHandleDist = 24.0 // screen pixels above the top edge
)

var (
	accentColor = color.RGBA{R: 0x4A, G: 0x6F, B: 0xA5, A: 0xFF}
	handleFill  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	// Non-active selections get a translucent accent outline, handles a
	// darker accent border.
	passiveColor = colorutil.WithAlpha(accentColor, 0.45)
	handleBorder = colorutil.Darken(accentColor, 0.25)
)

// handleOrder lists the resize handles clockwise from north.
var handleOrder = []transform.Handle{
	transform.HandleN, transform.HandleNE, transform.HandleE, transform.HandleSE,
	transform.HandleS, transform.HandleSW, transform.HandleW, transform.HandleNW,
}

// localHandleOffset returns the handle's offset from the layer center in
// unrotated canvas units.
func localHandleOffset(h transform.Handle, w, hgt float64) geometry.Point2D {
	switch h {
	case transform.HandleN:
		return geometry.Point2D{X: 0, Y: -hgt / 2}
	case transform.HandleNE:
		return geometry.Point2D{X: w / 2, Y: -hgt / 2}
	case transform.HandleE:
		return geometry.Point2D{X: w / 2, Y: 0}
	case transform.HandleSE:
		return geometry.Point2D{X: w / 2, Y: hgt / 2}
	case transform.HandleS:
		return geometry.Point2D{X: 0, Y: hgt / 2}
	case transform.HandleSW:
		return geometry.Point2D{X: -w / 2, Y: hgt / 2}
	case transform.HandleW:
		return geometry.Point2D{X: -w / 2, Y: 0}
	default: // nw
		return geometry.Point2D{X: -w / 2, Y: -hgt / 2}
	}
}

// handleScreenPos returns a handle's position in screen coordinates,
// following the layer's rotation.
func handleScreenPos(l *layer.Layer, h transform.Handle, zoom float64) geometry.Point2D {
	b := l.Bounds()
	center := b.Center()
	off := localHandleOffset(h, b.Width, b.Height).Rotate(b.Rotation)
	return geometry.Point2D{
		X: (center.X + off.X) * zoom,
		Y: (center.Y + off.Y) * zoom,
	}
}

// rotateHandleScreenPos returns the rotate handle's screen position: a fixed
// screen distance beyond the top-center handle along the layer's up axis.
func rotateHandleScreenPos(l *layer.Layer, zoom float64) geometry.Point2D {
	b := l.Bounds()
	center := b.Center()
	off := geometry.Point2D{X: 0, Y: -b.Height/2 - rotateHandleDist/zoom}.Rotate(b.Rotation)
	return geometry.Point2D{
		X: (center.X + off.X) * zoom,
		Y: (center.Y + off.Y) * zoom,
	}
}

// handleAt reports which resize handle, if any, is under the screen point.
func handleAt(l *layer.Layer, screen geometry.Point2D, zoom float64) (transform.Handle, bool) {
	for _, h := range handleOrder {
		if screen.Distance(handleScreenPos(l, h, zoom)) <= handleHitRadius {
			return h, true
		}
	}
	return "", false
}

// onRotateHandle reports whether the screen point is on the rotate handle.
func onRotateHandle(l *layer.Layer, screen geometry.Point2D, zoom float64) bool {
	return screen.Distance(rotateHandleScreenPos(l, zoom)) <= handleHitRadius
}

// drawSelectionOverlay draws the rotated outline, resize handles, and rotate
// handle for one selected layer. Non-active selected layers get a lighter
// outline without handles.
func (dc *DesignCanvas) drawSelectionOverlay(output *image.RGBA, l *layer.Layer, active bool) {
	b := l.Bounds()
	center := b.Center()
	zoom := dc.zoom

	corner := func(dx, dy float64) geometry.Point2D {
		off := geometry.Point2D{X: dx, Y: dy}.Rotate(b.Rotation)
		return geometry.Point2D{X: (center.X + off.X) * zoom, Y: (center.Y + off.Y) * zoom}
	}

	nw := corner(-b.Width/2, -b.Height/2)
	ne := corner(b.Width/2, -b.Height/2)
	se := corner(b.Width/2, b.Height/2)
	sw := corner(-b.Width/2, b.Height/2)

	outline := accentColor
	if !active {
		outline = passiveColor
	}
	drawLine(output, nw, ne, outline)
	drawLine(output, ne, se, outline)
	drawLine(output, se, sw, outline)
	drawLine(output, sw, nw, outline)

	if !active || l.Locked {
		return
	}

	for _, h := range handleOrder {
		drawHandleSquare(output, handleScreenPos(l, h, zoom))
	}

	top := handleScreenPos(l, transform.HandleN, zoom)
	rot := rotateHandleScreenPos(l, zoom)
	drawLine(output, top, rot, outline)
	drawHandleCircle(output, rot)
}

func drawLine(img *image.RGBA, a, c geometry.Point2D, col color.RGBA) {
	dist := a.Distance(c)
	steps := int(dist) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(a.X + (c.X-a.X)*t)
		y := int(a.Y + (c.Y-a.Y)*t)
		setIfInside(img, x, y, col)
	}
}

func drawHandleSquare(img *image.RGBA, p geometry.Point2D) {
	half := int(handleSize / 2)
	cx, cy := int(p.X), int(p.Y)
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			if dx == -half || dx == half || dy == -half || dy == half {
				setIfInside(img, cx+dx, cy+dy, handleBorder)
			} else {
				setIfInside(img, cx+dx, cy+dy, handleFill)
			}
		}
	}
}

func drawHandleCircle(img *image.RGBA, p geometry.Point2D) {
	r := handleSize / 2
	cx, cy := int(p.X), int(p.Y)
	ri := int(r) + 1
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d <= r-1 {
				setIfInside(img, cx+dx, cy+dy, handleFill)
			} else if d <= r {
				setIfInside(img, cx+dx, cy+dy, handleBorder)
			}
		}
	}
}

func setIfInside(img *image.RGBA, x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= img.Rect.Max.X || y >= img.Rect.Max.Y {
		return
	}
	if col.A == 0xFF {
		img.SetRGBA(x, y, col)
		return
	}
	dst := img.RGBAAt(x, y)
	a := float64(col.A) / 255
	img.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(col.R)*a + float64(dst.R)*(1-a)),
		G: uint8(float64(col.G)*a + float64(dst.G)*(1-a)),
		B: uint8(float64(col.B)*a + float64(dst.B)*(1-a)),
		A: 0xFF,
	})
}
