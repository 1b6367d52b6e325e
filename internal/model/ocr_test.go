package model

import (
	"strings"
	"testing"
)

func TestParseOCRResult_EmptyBlocks(t *testing.T) {
	res, err := ParseOCRResult([]byte(`{"pageWidth":1000,"pageHeight":1100,"textBlocks":[]}`))
	if err != nil {
		t.Fatalf("ParseOCRResult() error = %v", err)
	}
	if res.PageWidth != 1000 || res.PageHeight != 1100 {
		t.Errorf("page = %vx%v, want 1000x1100", res.PageWidth, res.PageHeight)
	}
	if res.TextBlocks == nil || len(res.TextBlocks) != 0 {
		t.Errorf("TextBlocks = %#v, want empty non-nil slice", res.TextBlocks)
	}
}

func TestParseOCRResult_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `hello`},
		{"missing pageWidth", `{"pageHeight":1100,"textBlocks":[]}`},
		{"missing pageHeight", `{"pageWidth":1000,"textBlocks":[]}`},
		{"missing textBlocks", `{"pageWidth":1000,"pageHeight":1100}`},
		{"zero page width", `{"pageWidth":0,"pageHeight":1100,"textBlocks":[]}`},
		{"block missing text", `{"pageWidth":1000,"pageHeight":1100,"textBlocks":[{"x":1,"y":1,"width":1,"height":1,"fontSize":10}]}`},
		{"block missing fontSize", `{"pageWidth":1000,"pageHeight":1100,"textBlocks":[{"text":"a","x":1,"y":1,"width":1,"height":1}]}`},
		{"bad weight", `{"pageWidth":1000,"pageHeight":1100,"textBlocks":[{"text":"a","x":1,"y":1,"width":1,"height":1,"fontSize":10,"fontWeight":"heavy"}]}`},
		{"string coordinate", `{"pageWidth":1000,"pageHeight":1100,"textBlocks":[{"text":"a","x":"1","y":1,"width":1,"height":1,"fontSize":10}]}`},
	}

	for _, tt := range tests {
		if _, err := ParseOCRResult([]byte(tt.raw)); err == nil {
			t.Errorf("%s: ParseOCRResult() error = nil, want error", tt.name)
		}
	}
}

func TestNormalize_Defaults(t *testing.T) {
	res := &OCRResult{
		PageWidth:  1000,
		PageHeight: 1100,
		TextBlocks: []TextBlock{
			{Text: "JANE DOE", X: 400, Y: 30, Width: 200, Height: 40, FontSize: 28, FontWeight: FontWeightBold, TextAlign: AlignCenter},
			{Text: "   ", X: 10, Y: 10, Width: 10, Height: 10, FontSize: 10},
			{Text: "2020 - 2024", X: 900, Y: 200, Width: 300, Height: 12, FontSize: 0},
		},
	}
	res.Normalize()

	if len(res.TextBlocks) != 2 {
		t.Fatalf("len(TextBlocks) = %d, want 2", len(res.TextBlocks))
	}
	first := res.TextBlocks[0]
	if first.FontWeight != FontWeightBold || first.TextAlign != AlignCenter || first.FontSize != 28 {
		t.Errorf("first block changed: %+v", first)
	}
	last := res.TextBlocks[1]
	if last.FontSize != DefaultBodyFontSize {
		t.Errorf("FontSize = %v, want %v", last.FontSize, DefaultBodyFontSize)
	}
	if last.FontWeight != FontWeightNormal || last.TextAlign != AlignLeft {
		t.Errorf("defaults = %q/%q, want normal/left", last.FontWeight, last.TextAlign)
	}
	if last.X+last.Width > PageWidth {
		t.Errorf("x+width = %v, want <= %v", last.X+last.Width, PageWidth)
	}
}

func TestNormalize_RescalesForeignPageSpace(t *testing.T) {
	res := &OCRResult{
		PageWidth:  500,
		PageHeight: 550,
		TextBlocks: []TextBlock{{Text: "Experience", X: 25, Y: 100, Width: 100, Height: 10, FontSize: 8}},
	}
	res.Normalize()

	b := res.TextBlocks[0]
	if res.PageWidth != PageWidth || res.PageHeight != PageHeight {
		t.Errorf("page = %vx%v, want %vx%v", res.PageWidth, res.PageHeight, PageWidth, PageHeight)
	}
	if b.X != 50 || b.Y != 200 || b.Width != 200 || b.Height != 20 || b.FontSize != 16 {
		t.Errorf("block = %+v, want doubled geometry", b)
	}
}

func TestValidateOCRJSON_ReportsErrors(t *testing.T) {
	err := ValidateOCRJSON([]byte(`{"pageWidth":1000}`))
	if err == nil {
		t.Fatal("ValidateOCRJSON() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "pageHeight") {
		t.Errorf("error %q does not mention pageHeight", err)
	}
}

func TestEnums(t *testing.T) {
	if !FontWeightBold.Valid() || FontWeight("light").Valid() {
		t.Error("FontWeight.Valid() mismatch")
	}
	if !AlignRight.Valid() || TextAlign("justify").Valid() {
		t.Error("TextAlign.Valid() mismatch")
	}
}
