package setup

import (
	"context"
	"testing"

	"resume-editor/internal/config"
	"resume-editor/internal/export"
	infra "resume-editor/pkg/infrastructure"
)

func TestNewSceneRenderer(t *testing.T) {
	r, err := NewSceneRenderer(&config.Config{ExportRenderer: config.RendererFont})
	if err != nil {
		t.Fatalf("NewSceneRenderer(font) error = %v", err)
	}
	if _, ok := r.(*export.FontRenderer); !ok {
		t.Errorf("font renderer = %T", r)
	}
	r, _ = NewSceneRenderer(&config.Config{ExportRenderer: config.RendererChrome, ChromePath: "/usr/bin/chromium"})
	c, ok := r.(*infra.ChromedpRenderer)
	if !ok || c.ChromePath != "/usr/bin/chromium" {
		t.Errorf("chrome renderer = %#v", r)
	}
}

func TestNewExtractor_MissingKey(t *testing.T) {
	_, err := NewExtractor(context.Background(), &config.Config{LLMProvider: "openai", LLMModel: "gpt-4o"}, nil)
	if err == nil {
		t.Error("NewExtractor() without API key error = nil")
	}
}
