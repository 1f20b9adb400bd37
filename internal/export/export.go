// Package export writes rendered compositions to PNG and PDF files.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/jung-kurt/gofpdf"

	"cover-studio/internal/layer"
	"cover-studio/internal/project"
	"cover-studio/internal/render"
)

// Options configures an export run.
type Options struct {
	// Scale multiplies canvas units into output pixels. 1 means one pixel
	// per unit.
	Scale float64
}

// PNG renders the store at the given scale and writes a PNG file.
func PNG(st *layer.Store, canvas project.Canvas, path string, opts Options) error {
	img := renderFor(st, canvas, opts)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// PDF renders the store and embeds it as a full-bleed image on a single PDF
// page sized to the canvas. Canvas units map to points.
func PDF(st *layer.Store, canvas project.Canvas, path string, opts Options) error {
	img := renderFor(st, canvas, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding page image: %w", err)
	}

	wPt := canvas.Width
	hPt := canvas.Height
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	pdf.AddPage()

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", imgOpts, &buf)
	pdf.ImageOptions("page", 0, 0, wPt, hPt, false, imgOpts, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func renderFor(st *layer.Store, canvas project.Canvas, opts Options) *image.RGBA {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	return render.NewRenderer().Render(st, canvas, scale)
}
