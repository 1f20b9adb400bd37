package render

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"cover-studio/internal/layer"
)

// imageCache decodes image files once and keeps them for the lifetime of the
// renderer. Scaled tiles are cached per size so interactive redraw does not
// resample on every frame.
type imageCache struct {
	mu      sync.Mutex
	decoded map[string]image.Image
	scaled  map[scaledKey]*image.RGBA
}

type scaledKey struct {
	path string
	w, h int
}

func newImageCache() *imageCache {
	return &imageCache{
		decoded: make(map[string]image.Image),
		scaled:  make(map[scaledKey]*image.RGBA),
	}
}

func (c *imageCache) load(path string) image.Image {
	c.mu.Lock()
	if img, ok := c.decoded[path]; ok {
		c.mu.Unlock()
		return img
	}
	c.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil
	}

	c.mu.Lock()
	c.decoded[path] = img
	c.mu.Unlock()
	return img
}

func (c *imageCache) tile(path string, w, h int) *image.RGBA {
	key := scaledKey{path: path, w: w, h: h}
	c.mu.Lock()
	if t, ok := c.scaled[key]; ok {
		c.mu.Unlock()
		return t
	}
	c.mu.Unlock()

	src := c.load(path)
	if src == nil {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Bounds(), xdraw.Over, nil)

	c.mu.Lock()
	c.scaled[key] = dst
	c.mu.Unlock()
	return dst
}

// Invalidate drops cached entries for a path, forcing a re-decode on the
// next render. Call after the file on disk changes.
func (c *imageCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.decoded, path)
	for key := range c.scaled {
		if key.path == path {
			delete(c.scaled, key)
		}
	}
}

// InvalidateImage drops the renderer's caches for an image path.
func (r *Renderer) InvalidateImage(path string) {
	r.images.Invalidate(path)
}

// imageTile returns the layer's image scaled to the tile size, or a gray
// placeholder when the file is missing or unreadable.
func (r *Renderer) imageTile(l *layer.Layer, w, h int) *image.RGBA {
	if l.Path != "" {
		if tile := r.images.tile(l.Path, w, h); tile != nil {
			return tile
		}
	}

	// Placeholder keeps the layer visible and selectable.
	tile := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(tile.Pix); i += 4 {
		tile.Pix[i] = 0xC0
		tile.Pix[i+1] = 0xC0
		tile.Pix[i+2] = 0xC0
		tile.Pix[i+3] = 0xFF
	}
	return tile
}
