package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-editor/internal/adapter/http"
	repo "resume-editor/internal/adapter/repository"
	"resume-editor/internal/config"
	"resume-editor/internal/export"
	"resume-editor/internal/infrastructure/migration"
	"resume-editor/internal/logging"
	"resume-editor/internal/setup"
	"resume-editor/internal/usecase"
	infra "resume-editor/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server stopped")
		os.Exit(1)
	}
}

// run wires the server and blocks until shutdown. Deferred cleanups run
// before it returns, on failure too.
func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// infra setup
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		p, err := infra.NewDocumentsPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Warn("Documents DB not available, persistence disabled")
		} else {
			pool = p
			defer pool.Close()
			if err := migration.RunMigrations(ctx, pool, log); err != nil {
				return fmt.Errorf("database migrations: %w", err)
			}
		}
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
		Exporter:       export.New(renderer),
		Repo:           repo.NewDocumentsRepo(pool),
		Log:            log,
		ExtractTimeout: cfg.ExtractTimeout,
	})
	defer orch.Close()

	app := fiber.New(fiber.Config{
		BodyLimit:             int(cfg.MaxUploadBytes),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	httpadapter.NewHandler(orch, log).Register(app)

	log.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"provider": cfg.LLMProvider,
		"model":    cfg.LLMModel,
		"renderer": cfg.ExportRenderer,
	}).Info("Server listening")
	return serve(ctx, app, ":"+cfg.Port, log)
}

// serve listens on addr until ctx is done or the listener fails, then shuts
// the app down.
func serve(ctx context.Context, app *fiber.App, addr string, log logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Warn("Server shutdown")
	}
	return nil
}
