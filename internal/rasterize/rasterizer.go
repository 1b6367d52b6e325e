// Package rasterize turns an uploaded document into the single raster image
// handed to the layout extractor.
package rasterize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"resume-editor/internal/domain"

	_ "golang.org/x/image/webp"
)

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEJPG  = "image/jpg"
	MIMEWEBP = "image/webp"
	MIMEPDF  = "application/pdf"

	// PDFScale is the upscaling applied to the first PDF page (72 DPI base).
	PDFScale = 2
	PDFDPI   = 72 * PDFScale
)

var pdfMagic = []byte("%PDF-")

// Image is a raster ready for extraction.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// PageRenderer renders one page of a PDF to PNG bytes at dpi.
type PageRenderer interface {
	RenderPage(ctx context.Context, pdf []byte, page, dpi int) ([]byte, error)
}

type Rasterizer struct {
	pdf PageRenderer
}

func New(pdf PageRenderer) *Rasterizer {
	return &Rasterizer{pdf: pdf}
}

// NormalizeMIME lowercases m, drops parameters and folds image/jpg into
// image/jpeg.
func NormalizeMIME(m string) string {
	m = strings.ToLower(strings.TrimSpace(m))
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	if m == MIMEJPG {
		return MIMEJPEG
	}
	return m
}

// Supported reports whether m is an accepted upload type.
func Supported(m string) bool {
	switch NormalizeMIME(m) {
	case MIMEPNG, MIMEJPEG, MIMEWEBP, MIMEPDF:
		return true
	}
	return false
}

// Rasterize passes images through unchanged and renders the first page of a
// PDF at PDFScale.
func (r *Rasterizer) Rasterize(ctx context.Context, data []byte, mimeType string) (*Image, error) {
	m := NormalizeMIME(mimeType)
	if !Supported(m) {
		return nil, domain.NewUnsupportedFormatError(mimeType)
	}
	if m == MIMEPDF {
		return r.rasterizePDF(ctx, data)
	}
	return decodeImage(data, m)
}

func (r *Rasterizer) rasterizePDF(ctx context.Context, data []byte) (*Image, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return nil, domain.NewRenderError("not a PDF document", nil)
	}
	if r.pdf == nil {
		return nil, domain.NewRenderError("no PDF renderer configured", nil)
	}
	out, err := r.pdf.RenderPage(ctx, data, 1, PDFDPI)
	if err != nil {
		return nil, domain.NewRenderError("render first page", err)
	}
	return decodeImage(out, MIMEPNG)
}

func decodeImage(data []byte, mimeType string) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewRenderError("decode image", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, domain.NewRenderError(fmt.Sprintf("empty %s image", format), nil)
	}
	return &Image{Data: data, MIMEType: mimeType, Width: cfg.Width, Height: cfg.Height}, nil
}
