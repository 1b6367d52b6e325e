//go:build !ocr

package ocr

import (
	"context"
	"errors"

	"resume-editor/internal/model"

	"github.com/sirupsen/logrus"
)

// ErrOCRNotEnabled is returned when Tesseract support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

type TesseractExtractor struct{}

func NewTesseractExtractor(string, logrus.FieldLogger) (*TesseractExtractor, error) {
	return nil, ErrOCRNotEnabled
}

func (*TesseractExtractor) Extract(context.Context, []byte, string) (*model.OCRResult, error) {
	return nil, ErrOCRNotEnabled
}
