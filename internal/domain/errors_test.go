package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPipelineError_Is(t *testing.T) {
	tests := []struct {
		err    error
		target error
		want   bool
	}{
		{NewUnsupportedFormatError("text/plain"), ErrUnsupportedFormat, true},
		{NewRenderError("pdf", errors.New("boom")), ErrRender, true},
		{NewEmptyResponseError(), ErrEmptyResponse, true},
		{NewMalformedResultError(errors.New("bad")), ErrMalformedResult, true},
		{NewExportError(errors.New("no surface")), ErrExport, true},
		{fmt.Errorf("wrapped: %w", NewEmptyResponseError()), ErrEmptyResponse, true},
		{NewEmptyResponseError(), ErrMalformedResult, false},
		{errors.New("plain"), ErrRender, false},
	}

	for i, tt := range tests {
		if got := errors.Is(tt.err, tt.target); got != tt.want {
			t.Errorf("case %d: errors.Is(%v, %v) = %v, want %v", i, tt.err, tt.target, got, tt.want)
		}
	}
}

func TestPipelineError_Unwrap(t *testing.T) {
	cause := errors.New("pdftoppm exited 1")
	err := NewRenderError("render failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if !strings.Contains(err.Error(), "pdftoppm exited 1") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{NewEmptyResponseError(), "No text extracted"},
		{NewMalformedResultError(nil), "Failed to parse OCR result"},
		{NewUnsupportedFormatError("text/plain"), "Invalid file type"},
		{errors.New("quota exceeded"), "Failed to process image: quota exceeded"},
	}

	for _, tt := range tests {
		if got := UserMessage(tt.err); !strings.HasPrefix(got, tt.want) {
			t.Errorf("UserMessage(%v) = %q, want prefix %q", tt.err, got, tt.want)
		}
	}
}
