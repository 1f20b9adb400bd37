package export

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cover-studio/internal/layer"
	"cover-studio/internal/project"
	"cover-studio/pkg/geometry"
)

func sampleStore(t *testing.T) *layer.Store {
	t.Helper()
	st := layer.NewStore()
	l := layer.NewLayer(layer.KindVector)
	l.Shape = layer.ShapeRect
	l.Fill = "#ff0000"
	l.SetBounds(geometry.Bounds{X: 10, Y: 10, Width: 50, Height: 30})
	require.NoError(t, st.Add(l))
	return st
}

func TestPNGWritesDecodableFile(t *testing.T) {
	canvas := project.Canvas{Width: 120, Height: 80, Background: "#ffffff"}
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, PNG(sampleStore(t), canvas, path, Options{Scale: 2}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 160, img.Bounds().Dy())
}

func TestPDFWritesFile(t *testing.T) {
	canvas := project.Canvas{Width: 120, Height: 80, Background: "#ffffff"}
	path := filepath.Join(t.TempDir(), "out.pdf")

	require.NoError(t, PDF(sampleStore(t), canvas, path, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPNGFailsOnBadPath(t *testing.T) {
	canvas := project.Canvas{Width: 10, Height: 10, Background: "#ffffff"}
	err := PNG(sampleStore(t), canvas, "/nonexistent/dir/out.png", Options{})
	assert.Error(t, err)
}
