// Package ocr extracts resume layout offline with Tesseract. Text-line boxes
// are mapped into the normalized page space and font size and alignment are
// estimated from geometry.
package ocr

import (
	"image"
	"math"
	"sort"
	"strings"

	"resume-editor/internal/model"
)

const (
	// lineHeightRatio converts a text-line box height to a font size.
	lineHeightRatio = 1.2
	minFontSize     = 8.0
	maxFontSize     = 40.0
	// headingFontSize and above is reported bold.
	headingFontSize = 14.0

	centerTolerance = 0.04
	leftMargin      = 150.0
	rightEdge       = 0.9
)

// Line is one recognized text line in image pixels.
type Line struct {
	Text string
	Box  image.Rectangle
}

// LinesToResult maps lines from an imgW x imgH image into the page space.
func LinesToResult(lines []Line, imgW, imgH int) *model.OCRResult {
	res := &model.OCRResult{
		PageWidth:  model.PageWidth,
		PageHeight: model.PageHeight,
		TextBlocks: []model.TextBlock{},
	}
	if imgW <= 0 || imgH <= 0 {
		return res
	}
	sx := model.PageWidth / float64(imgW)
	sy := model.PageHeight / float64(imgH)

	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Box.Min.Y != sorted[j].Box.Min.Y {
			return sorted[i].Box.Min.Y < sorted[j].Box.Min.Y
		}
		return sorted[i].Box.Min.X < sorted[j].Box.Min.X
	})

	for _, l := range sorted {
		text := strings.TrimSpace(l.Text)
		if text == "" || l.Box.Empty() {
			continue
		}
		b := model.TextBlock{
			Text:   text,
			X:      round1(float64(l.Box.Min.X) * sx),
			Y:      round1(float64(l.Box.Min.Y) * sy),
			Width:  round1(float64(l.Box.Dx()) * sx),
			Height: round1(float64(l.Box.Dy()) * sy),
		}
		b.FontSize = fontSizeFor(b.Height)
		b.FontWeight = model.FontWeightNormal
		if b.FontSize >= headingFontSize {
			b.FontWeight = model.FontWeightBold
		}
		b.TextAlign = alignmentFor(b.X, b.Width)
		res.TextBlocks = append(res.TextBlocks, b)
	}
	res.Normalize()
	return res
}

func fontSizeFor(height float64) float64 {
	fs := math.Round(height/lineHeightRatio*2) / 2
	return math.Max(minFontSize, math.Min(maxFontSize, fs))
}

func alignmentFor(x, width float64) model.TextAlign {
	center := x + width/2
	switch {
	case x > leftMargin && math.Abs(center-model.PageWidth/2) <= centerTolerance*model.PageWidth:
		return model.AlignCenter
	case x > model.PageWidth/2 && x+width >= rightEdge*model.PageWidth:
		return model.AlignRight
	}
	return model.AlignLeft
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
