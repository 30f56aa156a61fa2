package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/ngenohkevin/aura-explorer/config"
	"github.com/ngenohkevin/aura-explorer/internal/assistant"
	"github.com/ngenohkevin/aura-explorer/internal/explorer"
	"github.com/ngenohkevin/aura-explorer/internal/importer"
	"github.com/ngenohkevin/aura-explorer/internal/logging"
	"github.com/ngenohkevin/aura-explorer/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logging.Sync() }()
	logger := logging.L()

	if cfg.GeneratedAPIKey {
		logger.Warn("no API key configured, generated a new one",
			zap.String("env_file", cfg.EnvFile))
	}

	ctx := context.Background()

	im := importer.New(importer.Options{MaxDepth: cfg.ImportMaxDepth})
	im.Register("local", importer.NewLocalSource(cfg.AllowedPaths))
	if cfg.S3Enabled() {
		src, err := importer.NewS3Source(ctx, importer.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			logger.Fatal("failed to configure s3 source", zap.Error(err))
		}
		im.Register("s3", src)
	}

	var responder assistant.Responder = assistant.Offline{}
	if cfg.AssistantEnabled() {
		gemini, err := assistant.NewGeminiResponder(ctx, assistant.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.AssistantTimeout,
		})
		if err != nil {
			logger.Fatal("failed to create assistant", zap.Error(err))
		}
		responder = gemini
		logger.Info("assistant enabled", zap.String("model", gemini.Model()))
	}

	lang, err := assistant.ParseLanguage(cfg.DefaultLanguage)
	if err != nil {
		logger.Warn("unsupported default language, using pt", zap.String("language", cfg.DefaultLanguage))
		lang = assistant.Portuguese
	}

	ws := explorer.New(im, responder, explorer.Options{
		Language:         lang,
		Capacity:         cfg.TotalCapacityBytes,
		CapacityFromDisk: cfg.CapacityFromDisk,
		Seed:             cfg.SeedMockData,
	})
	defer ws.Close()

	srv := server.New(cfg, ws)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}
