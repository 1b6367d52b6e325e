//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"resume-editor/internal/domain"
	"resume-editor/internal/model"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"
)

// TesseractExtractor implements the layout extractor contract with a local
// Tesseract engine. A client is created per call since gosseract clients are
// not safe for concurrent use.
type TesseractExtractor struct {
	language string
	log      logrus.FieldLogger
}

func NewTesseractExtractor(language string, log logrus.FieldLogger) (*TesseractExtractor, error) {
	if language == "" {
		language = "eng"
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &TesseractExtractor{language: language, log: log.WithField("component", "tesseract")}, nil
}

func (t *TesseractExtractor) Extract(ctx context.Context, img []byte, mimeType string) (*model.OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, domain.NewRenderError("decode image", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	lines := make([]Line, 0, len(boxes))
	for _, b := range boxes {
		lines = append(lines, Line{Text: b.Word, Box: b.Box})
	}
	res := LinesToResult(lines, cfg.Width, cfg.Height)
	if len(res.TextBlocks) == 0 {
		return nil, domain.NewEmptyResponseError()
	}
	t.log.WithFields(logrus.Fields{
		"mime_type": mimeType,
		"blocks":    len(res.TextBlocks),
	}).Info("Extracted layout")
	return res, nil
}
