package render

import (
	"image"
	"image/color"
	"math"

	"cover-studio/internal/layer"
	"cover-studio/pkg/colorutil"
)

// drawShape rasterizes a vector layer into its tile.
func (r *Renderer) drawShape(tile *image.RGBA, l *layer.Layer, scale float64) {
	fill := colorutil.ParseHex(l.Fill, color.RGBA{R: 0x4A, G: 0x6F, B: 0xA5, A: 255})
	stroke := colorutil.ParseHex(l.Stroke, colorutil.Black)
	strokeW := int(math.Round(l.StrokeWidth * scale))

	w := tile.Rect.Dx()
	h := tile.Rect.Dy()

	switch l.Shape {
	case layer.ShapeEllipse:
		drawEllipse(tile, w, h, fill, stroke, strokeW)
	case layer.ShapeLine:
		if strokeW < 1 {
			strokeW = 1
		}
		drawThickLine(tile, 0, h/2, w, h/2, strokeW, stroke)
	default: // rect
		drawRect(tile, w, h, fill, stroke, strokeW)
	}
}

func drawRect(tile *image.RGBA, w, h int, fill, stroke color.RGBA, strokeW int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if strokeW > 0 && (x < strokeW || y < strokeW || x >= w-strokeW || y >= h-strokeW) {
				tile.SetRGBA(x, y, stroke)
			} else {
				tile.SetRGBA(x, y, fill)
			}
		}
	}
}

func drawEllipse(tile *image.RGBA, w, h int, fill, stroke color.RGBA, strokeW int) {
	rx := float64(w) / 2
	ry := float64(h) / 2
	if rx < 0.5 || ry < 0.5 {
		return
	}
	// Inner ellipse boundary for the stroke ring.
	irx := rx - float64(strokeW)
	iry := ry - float64(strokeW)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) + 0.5 - rx
			dy := float64(y) + 0.5 - ry
			d := (dx*dx)/(rx*rx) + (dy*dy)/(ry*ry)
			if d > 1 {
				continue
			}
			if strokeW > 0 && irx > 0 && iry > 0 {
				inner := (dx*dx)/(irx*irx) + (dy*dy)/(iry*iry)
				if inner > 1 {
					tile.SetRGBA(x, y, stroke)
					continue
				}
			}
			tile.SetRGBA(x, y, fill)
		}
	}
}

// drawThickLine draws a line with the given width using perpendicular
// distance testing over the line's bounding box.
func drawThickLine(tile *image.RGBA, x1, y1, x2, y2, width int, c color.RGBA) {
	fx1, fy1 := float64(x1), float64(y1)
	fx2, fy2 := float64(x2), float64(y2)
	length := math.Hypot(fx2-fx1, fy2-fy1)
	if length == 0 {
		return
	}
	half := float64(width) / 2

	minX := clampInt(int(math.Min(fx1, fx2)-half), 0, tile.Rect.Max.X)
	maxX := clampInt(int(math.Max(fx1, fx2)+half)+1, 0, tile.Rect.Max.X)
	minY := clampInt(int(math.Min(fy1, fy2)-half), 0, tile.Rect.Max.Y)
	maxY := clampInt(int(math.Max(fy1, fy2)+half)+1, 0, tile.Rect.Max.Y)

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			// Project the pixel onto the segment and measure distance.
			px := float64(x) + 0.5
			py := float64(y) + 0.5
			t := ((px-fx1)*(fx2-fx1) + (py-fy1)*(fy2-fy1)) / (length * length)
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			cx := fx1 + t*(fx2-fx1)
			cy := fy1 + t*(fy2-fy1)
			if math.Hypot(px-cx, py-cy) <= half {
				tile.SetRGBA(x, y, c)
			}
		}
	}
}
