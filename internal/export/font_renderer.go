package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"resume-editor/internal/canvas"
	"resume-editor/internal/model"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type faceKey struct {
	mono, bold, italic bool
}

// FontRenderer rasterizes scenes in pure Go with the Go font family. Courier
// and monospace families map to Go Mono, everything else to Go sans.
type FontRenderer struct {
	fonts map[faceKey]*opentype.Font
}

func NewFontRenderer() (*FontRenderer, error) {
	sources := []struct {
		key faceKey
		ttf []byte
	}{
		{faceKey{}, goregular.TTF},
		{faceKey{bold: true}, gobold.TTF},
		{faceKey{italic: true}, goitalic.TTF},
		{faceKey{bold: true, italic: true}, gobolditalic.TTF},
		{faceKey{mono: true}, gomono.TTF},
		{faceKey{mono: true, bold: true}, gomonobold.TTF},
		{faceKey{mono: true, italic: true}, gomonoitalic.TTF},
		{faceKey{mono: true, bold: true, italic: true}, gomonobolditalic.TTF},
	}
	r := &FontRenderer{fonts: make(map[faceKey]*opentype.Font, len(sources))}
	for _, src := range sources {
		f, err := opentype.Parse(src.ttf)
		if err != nil {
			return nil, fmt.Errorf("parse font %+v: %w", src.key, err)
		}
		r.fonts[src.key] = f
	}
	return r, nil
}

func (r *FontRenderer) Render(ctx context.Context, scene canvas.Scene, multiplier float64) (image.Image, error) {
	if multiplier <= 0 {
		multiplier = 1
	}
	w := int(math.Ceil(scene.Width * multiplier))
	h := int(math.Ceil(scene.Height * multiplier))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty scene %vx%v", scene.Width, scene.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(parseColor(scene.Background, color.White)), image.Point{}, draw.Src)

	for _, it := range scene.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.drawItem(img, it, multiplier); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func (r *FontRenderer) drawItem(dst *image.RGBA, it canvas.Item, m float64) error {
	if !(it.Style.FontSize > 0 && it.Style.FontSize <= canvas.MaxFontSize) {
		return fmt.Errorf("font size %v out of range for %q", it.Style.FontSize, it.Text)
	}
	key := faceKey{
		mono:   isMonospace(it.Style.FontFamily),
		bold:   it.Style.FontWeight == model.FontWeightBold,
		italic: it.Style.FontStyle == canvas.FontStyleItalic,
	}
	face, err := opentype.NewFace(r.fonts[key], &opentype.FaceOptions{
		Size:    it.Style.FontSize * m,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("font face for %q: %w", it.Text, err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(parseColor(it.Style.Fill, color.Black)),
		Face: face,
	}
	ascent := float64(face.Metrics().Ascent) / 64
	lineHeight := it.Style.FontSize * canvas.LineHeight * m
	boxWidth := it.Width * m

	for i, line := range it.Lines() {
		advance := float64(d.MeasureString(line)) / 64
		x := it.Left * m
		switch it.Style.TextAlign {
		case model.AlignCenter:
			x += (boxWidth - advance) / 2
		case model.AlignRight:
			x += boxWidth - advance
		}
		y := it.Top*m + float64(i)*lineHeight + ascent
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
		d.DrawString(line)
	}
	return nil
}

func isMonospace(family string) bool {
	f := strings.ToLower(family)
	return strings.Contains(f, "courier") || strings.Contains(f, "mono")
}

func parseColor(hex string, fallback color.Color) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c.Clamped()
}
