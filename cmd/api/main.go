package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	_ "github.com/johnquangdev/meeting-analyzer/docs"
	"github.com/johnquangdev/meeting-analyzer/internal/adapter/handler"
	"github.com/johnquangdev/meeting-analyzer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/meeting-analyzer/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/media"
	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/artifact"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/language"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-analyzer/internal/usecase/transcription"
	pkgai "github.com/johnquangdev/meeting-analyzer/pkg/ai"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
	pkglogger "github.com/johnquangdev/meeting-analyzer/pkg/logger"
	pkgvalidator "github.com/johnquangdev/meeting-analyzer/pkg/validator"
)

// @title           Meeting Analyzer API
// @version         1.0
// @description     Upload meeting recordings, get transcripts, summaries, action items, translations and PDF reports.

// @contact.name   API Support
// @contact.email  support@infoquang.id.vn

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.Log, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	logger.Info("🔧 Initializing dependencies...")

	// Database
	logger.Info("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if _, err := database.Migrate(db, database.MigrationsDir, migrate.Up, logger); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	} else {
		logger.Info("🔄 Skipping migrations; run cmd/migrate to manage the schema")
	}

	// Object storage
	store, err := newStore(appCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	logger.Info("✅ Storage ready", zap.String("type", cfg.Storage.Type))

	// Cache for pipeline status and translations
	var kv cache.Store
	if cfg.Redis.Enabled {
		logger.Info("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(appCtx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		kv = cache.NewRedisStore(redisClient, "meeting-analyzer:")
	} else {
		logger.Warn("⚠️  Redis disabled, using in-memory cache")
		memory := cache.NewMemoryStore()
		defer memory.Close()
		kv = memory
	}

	// Repositories
	meetingRepo := repository.NewMeetingRepository(db)
	artifactRepo := repository.NewArtifactRepository(db)

	// Transcription
	logger.Info("🤖 Initializing AI components...", zap.String("provider", cfg.Transcription.Provider))
	resolver := language.NewResolver(language.DefaultCode)
	deps := transcription.Deps{
		Audio:    store,
		Gate:     semaphore.NewWeighted(cfg.Pipeline.MaxUploads),
		Resolver: resolver,
		Logger:   logger,
	}
	if signer, ok := store.(storage.URLSigner); ok {
		deps.Signer = signer
	}
	provider, err := transcription.New(cfg, deps)
	if err != nil {
		logger.Fatal("Failed to initialize transcription provider", zap.Error(err))
	}

	engine := analysis.NewEngine(pkgai.NewGroqClient(&cfg.Groq), &cfg.Analysis, logger)
	translator := pkgai.NewTranslator(&cfg.Translation, logger)

	// Documents
	artifacts := artifact.NewCache(meetingRepo, artifactRepo, store,
		artifact.NewPDFRenderer(&cfg.Artifact), artifact.TextRenderer{}, logger)

	// Pipeline
	feed := meeting.NewStatusFeed(kv, cfg.Pipeline.StatusTTL, logger)
	coordinator := meeting.NewCoordinator(meetingRepo, provider, engine, resolver,
		media.NewProber("", logger), store, artifacts, feed, logger)
	pool := meeting.NewPool(coordinator, meetingRepo, &cfg.Pipeline, logger)
	if err := pool.Start(appCtx); err != nil {
		logger.Fatal("Failed to start worker pool", zap.Error(err))
	}

	meetingService := meeting.NewService(meeting.ServiceDeps{
		Meetings:       meetingRepo,
		Store:          store,
		Artifacts:      artifacts,
		Submitter:      pool,
		Translator:     translator,
		Resolver:       resolver,
		Cache:          kv,
		Feed:           feed,
		TranslationTTL: cfg.Translation.CacheTTL,
		Logger:         logger,
	})

	// HTTP
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(httpmw.EchoRequestLogger(logger, "/health", "/health/ready", cfg.Metrics.Path))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxUploadMB+1)))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))

	meetingHandler := handler.NewMeetingHandler(meetingService, cfg.Server.MaxUploadMB, logger)
	var pinger handler.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	handler.NewRouter(cfg, meetingHandler, meetingService).
		WithReadiness(handler.NewReadiness(pinger, store, logger)).
		Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
			zap.Bool("demo", cfg.IsDemo()),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}
	if err := pool.Stop(); err != nil {
		logger.Warn("⚠️ Worker pool stop", zap.Error(err))
	}
	stopApp()

	logger.Info("✅ Server stopped gracefully")
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Type == config.StorageMinIO {
		return storage.NewMinIOStore(ctx, &cfg.Storage)
	}
	return storage.NewLocalStore(cfg.Storage.LocalRoot)
}
