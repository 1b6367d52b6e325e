// Command digitize runs a resume file through the extraction pipeline and
// writes the rebuilt page as a PDF, without the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"resume-editor/internal/canvas"
	"resume-editor/internal/config"
	"resume-editor/internal/domain"
	"resume-editor/internal/export"
	"resume-editor/internal/logging"
	"resume-editor/internal/model"
	"resume-editor/internal/rasterize"
	"resume-editor/internal/setup"
	"resume-editor/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type options struct {
	in, out, ocrJSON, mimeType string
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "resume file (PNG, JPG, WEBP or PDF)")
	flag.StringVar(&opts.out, "out", "edited-resume.pdf", "output PDF path")
	flag.StringVar(&opts.ocrJSON, "ocr-json", "", "also write the extracted layout as JSON to this path")
	flag.StringVar(&opts.mimeType, "mime", "", "override the detected MIME type")
	flag.Parse()

	if opts.in == "" {
		fmt.Fprintln(os.Stderr, "usage: digitize -in resume.pdf [-out edited-resume.pdf] [-ocr-json layout.json]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log, opts); err != nil {
		log.WithError(err).Error(domain.UserMessage(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	mt := opts.mimeType
	if mt == "" {
		mt = detectMIME(opts.in, data)
	}

	extractor, err := setup.NewExtractor(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("layout extractor: %w", err)
	}
	renderer, err := setup.NewSceneRenderer(cfg)
	if err != nil {
		return fmt.Errorf("scene renderer: %w", err)
	}

	orch := usecase.NewOrchestrator(usecase.Options{
		Rasterizer:     setup.NewRasterizer(cfg),
		Extractor:      extractor,
		Log:            log,
		ExtractTimeout: cfg.ExtractTimeout,
	})
	defer orch.Close()

	res, err := orch.Extract(ctx, mt, data)
	if err != nil {
		return err
	}

	if opts.ocrJSON != "" {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		if err := os.WriteFile(opts.ocrJSON, b, 0o644); err != nil {
			return fmt.Errorf("write layout: %w", err)
		}
	}

	pdf, err := render(ctx, export.New(renderer), res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, pdf, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	log.WithFields(logrus.Fields{"blocks": len(res.TextBlocks), "out": opts.out}).Info("Resume digitized")
	return nil
}

func render(ctx context.Context, exp *export.Exporter, res *model.OCRResult) ([]byte, error) {
	c := canvas.New()
	if err := c.Mount(model.PageWidth, model.PageHeight); err != nil {
		return nil, err
	}
	defer c.Dispose()
	c.Load(res)
	return exp.Export(ctx, c)
}

// detectMIME prefers the file extension and falls back to content sniffing.
func detectMIME(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return rasterize.MIMEPNG
	case ".jpg", ".jpeg":
		return rasterize.MIMEJPEG
	case ".webp":
		return rasterize.MIMEWEBP
	case ".pdf":
		return rasterize.MIMEPDF
	}
	return rasterize.NormalizeMIME(http.DetectContentType(data))
}
