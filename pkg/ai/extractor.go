package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"resume-editor/internal/domain"
	"resume-editor/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
)

// DefaultMaxTokens bounds the model output for one page of blocks.
const DefaultMaxTokens = 8192

// LayoutExtractor asks a vision model for the text blocks of a resume page.
// Each call is a single round trip with no retries.
type LayoutExtractor struct {
	llm        Generator
	provider   string
	maxTokens  int
	dataURLImg bool
	log        logrus.FieldLogger
}

func NewLayoutExtractor(llm Generator, cfg ProviderConfig, log logrus.FieldLogger) *LayoutExtractor {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &LayoutExtractor{
		llm:        llm,
		provider:   cfg.Provider,
		maxTokens:  maxTokens,
		dataURLImg: imageAsDataURL(cfg.Provider),
		log:        log.WithField("component", "layout_extractor"),
	}
}

// Extract sends image to the model and parses the returned layout.
func (e *LayoutExtractor) Extract(ctx context.Context, image []byte, mimeType string) (*model.OCRResult, error) {
	logger := e.log.WithFields(logrus.Fields{
		"provider":  e.provider,
		"mime_type": mimeType,
		"bytes":     len(image),
	})

	var imagePart llms.ContentPart
	if e.dataURLImg {
		imagePart = llms.ImageURLPart("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image))
	} else {
		imagePart = llms.BinaryPart(mimeType, image)
	}

	logger.Debug("Sending request to vision model")
	resp, err := e.llm.GenerateContent(ctx, []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(ExtractionPrompt), imagePart},
		},
	}, llms.WithTemperature(0), llms.WithMaxTokens(e.maxTokens))
	if err != nil {
		logger.WithError(err).Error("Vision model request failed")
		return nil, fmt.Errorf("vision model request: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		logger.Warn("Vision model returned no text")
		return nil, domain.NewEmptyResponseError()
	}

	result, err := model.ParseOCRResult([]byte(CleanModelOutput(text)))
	if err != nil {
		logger.WithError(err).WithField("preview", preview(text, 200)).Warn("Unparseable vision model output")
		return nil, domain.NewMalformedResultError(err)
	}
	logger.WithField("blocks", len(result.TextBlocks)).Info("Extracted layout")
	return result, nil
}

func responseText(resp *llms.ContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Choices {
		if c != nil {
			b.WriteString(c.Content)
		}
	}
	return b.String()
}

// CleanModelOutput strips markdown code fences from a model reply. When a
// fence is present the first fenced segment is the payload. Otherwise any
// prose around the outermost JSON object is dropped.
func CleanModelOutput(text string) string {
	s := text
	switch {
	case strings.Contains(s, "```json"):
		s = strings.SplitN(s, "```json", 2)[1]
		s = strings.SplitN(s, "```", 2)[0]
	case strings.Contains(s, "```"):
		parts := strings.SplitN(s, "```", 3)
		s = parts[1]
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return s
	}
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// preview cuts s to at most n bytes on a rune boundary.
func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
