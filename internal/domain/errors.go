package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies pipeline failures.
type ErrorCode string

const (
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	CodeRender            ErrorCode = "RENDER_FAILED"
	CodeEmptyResponse     ErrorCode = "EMPTY_RESPONSE"
	CodeMalformedResult   ErrorCode = "MALFORMED_RESULT"
	CodeExport            ErrorCode = "EXPORT_FAILED"
)

// PipelineError is the structured error produced by the rasterizer, the
// layout extractors and the exporter.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is matches any PipelineError carrying the same code, so the sentinels below
// work with errors.Is.
func (e *PipelineError) Is(target error) bool {
	var t *PipelineError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrUnsupportedFormat = &PipelineError{Code: CodeUnsupportedFormat}
	ErrRender            = &PipelineError{Code: CodeRender}
	ErrEmptyResponse     = &PipelineError{Code: CodeEmptyResponse}
	ErrMalformedResult   = &PipelineError{Code: CodeMalformedResult}
	ErrExport            = &PipelineError{Code: CodeExport}
)

func NewUnsupportedFormatError(mimeType string) *PipelineError {
	return &PipelineError{
		Code:    CodeUnsupportedFormat,
		Message: fmt.Sprintf("unsupported file format: %s", mimeType),
		Details: map[string]interface{}{"mime_type": mimeType},
	}
}

func NewRenderError(message string, cause error) *PipelineError {
	return &PipelineError{Code: CodeRender, Message: message, Cause: cause}
}

func NewEmptyResponseError() *PipelineError {
	return &PipelineError{Code: CodeEmptyResponse, Message: "model returned no text"}
}

func NewMalformedResultError(cause error) *PipelineError {
	return &PipelineError{Code: CodeMalformedResult, Message: "model output is not a valid OCR result", Cause: cause}
}

func NewExportError(cause error) *PipelineError {
	return &PipelineError{Code: CodeExport, Message: "export failed", Cause: cause}
}

// UserMessage returns the human readable message shown to the user for a
// failed extraction.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "Invalid file type. Please upload PNG, JPG, WEBP, or PDF."
	case errors.Is(err, ErrEmptyResponse):
		return "No text extracted from image. Please try a clearer image."
	case errors.Is(err, ErrMalformedResult):
		return "Failed to parse OCR result. Please try again."
	case errors.Is(err, ErrExport):
		return "Failed to export PDF. Please try again."
	case err == nil:
		return ""
	}
	return "Failed to process image: " + err.Error()
}
