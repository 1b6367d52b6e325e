// Package export turns the current canvas into a single-page PDF. The scene is
// rasterized at OutputMultiplier and the image fills a page sized exactly to
// the unscaled canvas, so exported text is not selectable.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"resume-editor/internal/canvas"
	"resume-editor/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// OutputMultiplier is the raster resolution relative to canvas pixels.
const OutputMultiplier = 2.0

// SceneRenderer rasterizes a scene at multiplier times its pixel size.
type SceneRenderer interface {
	Render(ctx context.Context, scene canvas.Scene, multiplier float64) (image.Image, error)
}

type Exporter struct {
	renderer   SceneRenderer
	multiplier float64
}

func New(r SceneRenderer) *Exporter {
	return &Exporter{renderer: r, multiplier: OutputMultiplier}
}

// Export renders c and returns the PDF bytes.
func (e *Exporter) Export(ctx context.Context, c *canvas.Canvas) ([]byte, error) {
	if c == nil || !c.Ready() {
		return nil, domain.NewExportError(canvas.ErrSurfaceNotReady)
	}
	img, err := e.renderer.Render(ctx, c.Snapshot(), e.multiplier)
	if err != nil {
		return nil, domain.NewExportError(fmt.Errorf("rasterize scene: %w", err))
	}
	page := c.Dimensions()
	out, err := assemblePDF(img, page.Width, page.Height)
	if err != nil {
		return nil, domain.NewExportError(err)
	}
	return out, nil
}

// assemblePDF places img at the origin of a width x height point page.
func assemblePDF(img image.Image, width, height float64) ([]byte, error) {
	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("scene", opts, &raster)
	pdf.ImageOptions("scene", 0, 0, width, height, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}
