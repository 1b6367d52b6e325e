// Package setup builds the pipeline components selected by the configuration.
// It is shared by the server and the command line tools.
package setup

import (
	"context"

	"resume-editor/internal/config"
	"resume-editor/internal/export"
	"resume-editor/internal/rasterize"
	"resume-editor/internal/usecase"
	"resume-editor/pkg/ai"
	infra "resume-editor/pkg/infrastructure"
	"resume-editor/pkg/ocr"

	"github.com/sirupsen/logrus"
)

// NewExtractor returns the Tesseract extractor or a vision model extractor
// for cfg.LLMProvider.
func NewExtractor(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (usecase.LayoutExtractor, error) {
	if cfg.LLMProvider == config.ProviderTesseract {
		t, err := ocr.NewTesseractExtractor("eng", log)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	pc := ai.ProviderConfig{
		Provider:  cfg.LLMProvider,
		Model:     cfg.LLMModel,
		APIKey:    cfg.LLMAPIKey,
		BaseURL:   cfg.LLMBaseURL,
		MaxTokens: cfg.LLMMaxTokens,
	}
	llm, err := ai.NewGenerator(ctx, pc)
	if err != nil {
		return nil, err
	}
	return ai.NewLayoutExtractor(llm, pc, log), nil
}

// NewSceneRenderer returns the export rasterizer named by cfg.ExportRenderer.
func NewSceneRenderer(cfg *config.Config) (export.SceneRenderer, error) {
	if cfg.ExportRenderer == config.RendererChrome {
		return infra.NewChromedpRenderer(cfg.ChromePath), nil
	}
	return export.NewFontRenderer()
}

// NewRasterizer renders PDFs with the configured poppler binaries.
func NewRasterizer(cfg *config.Config) *rasterize.Rasterizer {
	return rasterize.New(infra.NewPdftoppmRenderer(cfg.PdftoppmPath, cfg.PdfinfoPath))
}
