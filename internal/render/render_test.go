package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cover-studio/internal/layer"
	"cover-studio/internal/project"
	"cover-studio/pkg/geometry"
)

func testCanvas() project.Canvas {
	return project.Canvas{Width: 200, Height: 100, Background: "#ffffff"}
}

func vectorLayer(t *testing.T, st *layer.Store, b geometry.Bounds, fill string) *layer.Layer {
	t.Helper()
	l := layer.NewLayer(layer.KindVector)
	l.Shape = layer.ShapeRect
	l.Fill = fill
	l.Stroke = fill
	l.SetBounds(b)
	require.NoError(t, st.Add(l))
	return l
}

func TestRenderBackgroundFill(t *testing.T) {
	r := NewRenderer()
	out := r.Render(layer.NewStore(), project.Canvas{Width: 10, Height: 10, Background: "#336699"}, 1)

	require.Equal(t, 10, out.Rect.Dx())
	require.Equal(t, 10, out.Rect.Dy())
	assert.Equal(t, color.RGBA{0x33, 0x66, 0x99, 0xFF}, out.RGBAAt(5, 5))
}

func TestRenderRectLayer(t *testing.T) {
	st := layer.NewStore()
	vectorLayer(t, st, geometry.Bounds{X: 20, Y: 10, Width: 40, Height: 30}, "#ff0000")

	out := NewRenderer().Render(st, testCanvas(), 1)

	assert.Equal(t, color.RGBA{0xFF, 0x00, 0x00, 0xFF}, out.RGBAAt(40, 25))
	// Outside the layer stays background.
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, out.RGBAAt(100, 50))
}

func TestRenderHiddenLayerSkipped(t *testing.T) {
	st := layer.NewStore()
	l := vectorLayer(t, st, geometry.Bounds{X: 20, Y: 10, Width: 40, Height: 30}, "#ff0000")
	l.Visible = false

	out := NewRenderer().Render(st, testCanvas(), 1)
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, out.RGBAAt(40, 25))
}

func TestRenderPaintOrder(t *testing.T) {
	st := layer.NewStore()
	vectorLayer(t, st, geometry.Bounds{X: 0, Y: 0, Width: 50, Height: 50}, "#ff0000")
	vectorLayer(t, st, geometry.Bounds{X: 0, Y: 0, Width: 50, Height: 50}, "#00ff00")

	out := NewRenderer().Render(st, testCanvas(), 1)
	// The later layer has the higher z-index and wins.
	assert.Equal(t, color.RGBA{0x00, 0xFF, 0x00, 0xFF}, out.RGBAAt(25, 25))
}

func TestRenderOpacityBlends(t *testing.T) {
	st := layer.NewStore()
	l := vectorLayer(t, st, geometry.Bounds{X: 0, Y: 0, Width: 50, Height: 50}, "#000000")
	l.Opacity = 0.5

	out := NewRenderer().Render(st, testCanvas(), 1)
	got := out.RGBAAt(25, 25)
	// Half black over white lands mid-gray.
	assert.InDelta(t, 127, int(got.R), 3)
	assert.InDelta(t, 127, int(got.G), 3)
	assert.InDelta(t, 127, int(got.B), 3)
}

func TestRenderRotatedRect(t *testing.T) {
	st := layer.NewStore()
	// A wide flat rect rotated 90 degrees becomes tall and narrow around
	// its center (50, 50).
	l := vectorLayer(t, st, geometry.Bounds{X: 20, Y: 40, Width: 60, Height: 20}, "#ff0000")
	l.SetBounds(geometry.Bounds{X: 20, Y: 40, Width: 60, Height: 20, Rotation: 90})

	out := NewRenderer().Render(st, project.Canvas{Width: 100, Height: 100, Background: "#ffffff"}, 1)

	red := color.RGBA{0xFF, 0x00, 0x00, 0xFF}
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	assert.Equal(t, red, out.RGBAAt(50, 25))   // inside the rotated extent
	assert.Equal(t, red, out.RGBAAt(50, 75))   // and on the other side
	assert.Equal(t, white, out.RGBAAt(25, 50)) // old horizontal extent is clear
	assert.Equal(t, white, out.RGBAAt(75, 50))
}

func TestRenderScaleDoublesOutput(t *testing.T) {
	out := NewRenderer().Render(layer.NewStore(), testCanvas(), 2)
	assert.Equal(t, 400, out.Rect.Dx())
	assert.Equal(t, 200, out.Rect.Dy())
}

func TestRenderTextLayerMarksPixels(t *testing.T) {
	st := layer.NewStore()
	l := layer.NewLayer(layer.KindText)
	l.Text = "Hello"
	l.FontSize = 32
	l.Color = "#000000"
	l.SetBounds(geometry.Bounds{X: 10, Y: 10, Width: 150, Height: 50})
	require.NoError(t, st.Add(l))

	out := NewRenderer().Render(st, testCanvas(), 1)

	// Glyph coverage is antialiased so just require any non-background
	// pixels inside the text box.
	marked := 0
	for y := 10; y < 60; y++ {
		for x := 10; x < 160; x++ {
			if out.RGBAAt(x, y) != (color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
				marked++
			}
		}
	}
	assert.Greater(t, marked, 20)
}

func TestRenderMissingImageUsesPlaceholder(t *testing.T) {
	st := layer.NewStore()
	l := layer.NewLayer(layer.KindImage)
	l.Path = "/nonexistent/cover.png"
	l.SetBounds(geometry.Bounds{X: 0, Y: 0, Width: 40, Height: 40})
	require.NoError(t, st.Add(l))

	out := NewRenderer().Render(st, testCanvas(), 1)
	assert.Equal(t, color.RGBA{0xC0, 0xC0, 0xC0, 0xFF}, out.RGBAAt(20, 20))
}
