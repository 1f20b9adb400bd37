package render

import (
	"image"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"cover-studio/internal/layer"
	"cover-studio/pkg/colorutil"
)

// fontCache parses the embedded Go fonts once and caches faces per size.
type fontCache struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size int // pixels
}

func newFontCache() *fontCache {
	return &fontCache{faces: make(map[faceKey]font.Face)}
}

func (fc *fontCache) face(bold bool, sizePx int) font.Face {
	if sizePx < 4 {
		sizePx = 4
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()

	key := faceKey{bold: bold, size: sizePx}
	if f, ok := fc.faces[key]; ok {
		return f
	}

	src := &fc.regular
	data := goregular.TTF
	if bold {
		src = &fc.bold
		data = gobold.TTF
	}
	if *src == nil {
		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil
		}
		*src = parsed
	}

	face, err := opentype.NewFace(*src, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	fc.faces[key] = face
	return face
}

// drawText rasterizes a text layer into its tile. Lines split on newlines;
// there is no automatic wrapping, the layer's box just clips.
func (r *Renderer) drawText(tile *image.RGBA, l *layer.Layer, scale float64) {
	text := l.Text
	if text == "" {
		return
	}

	sizePx := int(l.FontSize * scale)
	face := r.fonts.face(l.FontBold, sizePx)
	if face == nil {
		return
	}

	col := colorutil.ParseHex(l.Color, colorutil.Black)
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	drawer := &font.Drawer{
		Dst:  tile,
		Src:  image.NewUniform(col),
		Face: face,
	}

	y := ascent
	for _, line := range strings.Split(text, "\n") {
		if y-ascent > tile.Rect.Dy() {
			break
		}
		drawer.Dot = fixed.P(0, y)
		drawer.DrawString(line)
		y += lineHeight
	}
}
