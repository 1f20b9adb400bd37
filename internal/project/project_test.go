package project

import (
	"path/filepath"
	"testing"

	"cover-studio/internal/layer"
	"cover-studio/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	st := layer.NewStore()
	text := layer.NewLayer(layer.KindText)
	text.Text = "Season Finale"
	text.FontSize = 48
	text.Color = "#101020"
	text.SetBounds(geometry.Bounds{X: 50, Y: 50, Width: 400, Height: 80, Rotation: -3})
	require.NoError(t, st.Add(text))

	shape := layer.NewLayer(layer.KindVector)
	shape.Shape = layer.ShapeEllipse
	shape.Fill = "#e0b040"
	shape.SetBounds(geometry.Bounds{X: 300, Y: 200, Width: 120, Height: 120})
	require.NoError(t, st.Add(shape))

	_, err := st.Group([]string{text.ID, shape.ID})
	require.NoError(t, err)

	proj := New("episode-12")
	proj.Canvas = Canvas{Width: 1280, Height: 720, Background: "#222244"}
	proj.SetLayers(st)

	path := filepath.Join(t.TempDir(), "episode-12"+Extension)
	require.NoError(t, proj.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "episode-12", loaded.Name)
	assert.Equal(t, proj.Canvas, loaded.Canvas)

	rebuilt, err := loaded.BuildStore()
	require.NoError(t, err)
	assert.True(t, st.Equal(rebuilt))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"+Extension))
	assert.Error(t, err)
}

func TestBuildStoreRepairsDanglingReferences(t *testing.T) {
	proj := New("broken")
	g := layer.NewLayer(layer.KindGroup)
	g.Children = []string{"missing-child"}
	child := layer.NewLayer(layer.KindVector)
	child.ParentID = "missing-group"
	proj.Layers = []*layer.Layer{g, child}

	st, err := proj.BuildStore()
	require.NoError(t, err)

	gotG, ok := st.Get(g.ID)
	require.True(t, ok)
	assert.Empty(t, gotG.Children)

	gotC, ok := st.Get(child.ID)
	require.True(t, ok)
	assert.Equal(t, "", gotC.ParentID)
}

func TestLoadDefaultsDegenerateCanvas(t *testing.T) {
	proj := New("tiny")
	proj.Canvas = Canvas{}
	path := filepath.Join(t.TempDir(), "tiny"+Extension)
	require.NoError(t, proj.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCanvas(), loaded.Canvas)
}
