// Package render composes a layer stack into a raster image. It is shared by
// the interactive canvas and the headless exporters, so everything here works
// on plain image.RGBA and never touches the UI toolkit.
package render

import (
	"image"
	"image/color"
	"math"

	"cover-studio/internal/layer"
	"cover-studio/internal/project"
	"cover-studio/pkg/colorutil"
)

// Renderer composes layer stores into RGBA images. It caches decoded image
// files and parsed font faces across frames, so one Renderer should be reused
// for the lifetime of a canvas or export run.
type Renderer struct {
	images *imageCache
	fonts  *fontCache
}

// NewRenderer creates a renderer with empty caches.
func NewRenderer() *Renderer {
	return &Renderer{
		images: newImageCache(),
		fonts:  newFontCache(),
	}
}

// Render composes the store's layers in paint order onto a canvas-sized
// image. scale multiplies every canvas coordinate, so scale 1 yields one
// pixel per canvas unit and scale 2 a double-resolution export.
func (r *Renderer) Render(st *layer.Store, canvas project.Canvas, scale float64) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(canvas.Width * scale))
	h := int(math.Round(canvas.Height * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillBackground(output, colorutil.ParseHex(canvas.Background, colorutil.White))

	for _, l := range st.Ordered() {
		if l.Kind == layer.KindGroup || !l.Visible || l.Opacity <= 0 {
			continue
		}
		// A member of a hidden group stays hidden even if its own flag
		// was not mirrored yet.
		if l.ParentID != "" {
			if g, ok := st.Get(l.ParentID); ok && !g.Visible {
				continue
			}
		}
		r.compositeLayer(output, l, scale)
	}

	return output
}

func fillBackground(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
	}
}

// compositeLayer rasterizes one layer into an axis-aligned tile at its local
// size, then back-maps output pixels through the layer's rotation. Scanning
// the destination and inverse-mapping each pixel avoids holes that forward
// mapping would leave at rotated edges.
func (r *Renderer) compositeLayer(output *image.RGBA, l *layer.Layer, scale float64) {
	b := l.Bounds()
	tileW := int(math.Ceil(b.Width * scale))
	tileH := int(math.Ceil(b.Height * scale))
	if tileW < 1 || tileH < 1 {
		return
	}

	tile := r.renderTile(l, tileW, tileH, scale)
	if tile == nil {
		return
	}

	opacity := l.Opacity
	if opacity > 1 {
		opacity = 1
	}

	cx := (b.X + b.Width/2) * scale
	cy := (b.Y + b.Height/2) * scale
	rotation := b.Rotation * math.Pi / 180.0
	cosR := math.Cos(rotation)
	sinR := math.Sin(rotation)

	// Destination scan area: the rotated tile's bounding box, clipped to
	// the output.
	halfDiag := math.Hypot(float64(tileW), float64(tileH)) / 2
	minX := clampInt(int(math.Floor(cx-halfDiag)), 0, output.Rect.Max.X)
	maxX := clampInt(int(math.Ceil(cx+halfDiag)), 0, output.Rect.Max.X)
	minY := clampInt(int(math.Floor(cy-halfDiag)), 0, output.Rect.Max.Y)
	maxY := clampInt(int(math.Ceil(cy+halfDiag)), 0, output.Rect.Max.Y)

	halfW := float64(tileW) / 2
	halfH := float64(tileH) / 2

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			// Inverse rotate the output pixel into tile space.
			relX := float64(x) + 0.5 - cx
			relY := float64(y) + 0.5 - cy
			srcX := relX*cosR + relY*sinR + halfW
			srcY := -relX*sinR + relY*cosR + halfH

			sx := int(srcX)
			sy := int(srcY)
			if sx < 0 || sx >= tileW || sy < 0 || sy >= tileH {
				continue
			}

			sr, sg, sb, sa := tile.At(sx, sy).RGBA()
			effectiveAlpha := float64(sa) / 0xffff * opacity

			if effectiveAlpha >= 0.999 {
				output.Set(x, y, color.RGBA{uint8(sr >> 8), uint8(sg >> 8), uint8(sb >> 8), 255})
			} else if effectiveAlpha > 0.001 {
				dr, dg, db, _ := output.At(x, y).RGBA()
				invAlpha := 1 - effectiveAlpha
				output.Set(x, y, color.RGBA{
					R: uint8(float64(sr>>8)*effectiveAlpha + float64(dr>>8)*invAlpha),
					G: uint8(float64(sg>>8)*effectiveAlpha + float64(dg>>8)*invAlpha),
					B: uint8(float64(sb>>8)*effectiveAlpha + float64(db>>8)*invAlpha),
					A: 255,
				})
			}
		}
	}
}

// renderTile rasterizes the layer's content at its unrotated size.
func (r *Renderer) renderTile(l *layer.Layer, w, h int, scale float64) *image.RGBA {
	switch l.Kind {
	case layer.KindVector:
		tile := image.NewRGBA(image.Rect(0, 0, w, h))
		r.drawShape(tile, l, scale)
		return tile
	case layer.KindText:
		tile := image.NewRGBA(image.Rect(0, 0, w, h))
		r.drawText(tile, l, scale)
		return tile
	case layer.KindImage:
		return r.imageTile(l, w, h)
	default:
		return nil
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
