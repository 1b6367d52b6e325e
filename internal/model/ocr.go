package model

import "strings"

// Go models for the OCR wire contract shared by the extractor, the HTTP
// endpoint and the canvas. Coordinates live in the normalized page space.

const (
	PageWidth  = 1000.0
	PageHeight = 1100.0

	// DefaultBodyFontSize replaces non-positive font sizes reported by the model.
	DefaultBodyFontSize = 11.0
)

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

func (w FontWeight) Valid() bool {
	return w == FontWeightNormal || w == FontWeightBold
}

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

func (a TextAlign) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

type TextBlock struct {
	Text       string     `json:"text"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	FontSize   float64    `json:"fontSize"`
	FontWeight FontWeight `json:"fontWeight,omitempty"`
	TextAlign  TextAlign  `json:"textAlign,omitempty"`
}

type OCRResult struct {
	PageWidth  float64     `json:"pageWidth"`
	PageHeight float64     `json:"pageHeight"`
	TextBlocks []TextBlock `json:"textBlocks"`
}

// Normalize pins the result to the normalized page space. Blocks declared in a
// different page size are rescaled, blank blocks are dropped, missing styles get
// their defaults and widths are clamped so that x+width never exceeds the page.
// Callers must reject non-positive page sizes before normalizing.
func (r *OCRResult) Normalize() {
	sx, sy := 1.0, 1.0
	if r.PageWidth > 0 && r.PageWidth != PageWidth {
		sx = PageWidth / r.PageWidth
	}
	if r.PageHeight > 0 && r.PageHeight != PageHeight {
		sy = PageHeight / r.PageHeight
	}
	r.PageWidth, r.PageHeight = PageWidth, PageHeight

	blocks := make([]TextBlock, 0, len(r.TextBlocks))
	for _, b := range r.TextBlocks {
		if strings.TrimSpace(b.Text) == "" {
			continue
		}
		b.X, b.Width = b.X*sx, b.Width*sx
		b.Y, b.Height = b.Y*sy, b.Height*sy
		if sx != 1 || sy != 1 {
			b.FontSize *= min(sx, sy)
		}
		if b.FontSize <= 0 {
			b.FontSize = DefaultBodyFontSize
		}
		if !b.FontWeight.Valid() {
			b.FontWeight = FontWeightNormal
		}
		if !b.TextAlign.Valid() {
			b.TextAlign = AlignLeft
		}
		b.X = clamp(b.X, 0, PageWidth)
		b.Y = clamp(b.Y, 0, PageHeight)
		b.Width = clamp(b.Width, 0, PageWidth-b.X)
		b.Height = max(b.Height, 0)
		blocks = append(blocks, b)
	}
	r.TextBlocks = blocks
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
