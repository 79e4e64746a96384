package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Enejivk/cleary-chat-Backend/internal/config"
	"github.com/Enejivk/cleary-chat-Backend/internal/database"
	"github.com/Enejivk/cleary-chat-Backend/internal/handler"
	"github.com/Enejivk/cleary-chat-Backend/internal/index"
	"github.com/Enejivk/cleary-chat-Backend/internal/pkg/redisx"
	"github.com/Enejivk/cleary-chat-Backend/internal/service"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db, cfg.EmbeddingDimensions); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	// Ingestion status store. Redis is optional; without it statuses are
	// process-local.
	var statuses service.StatusStore = service.NewMemoryStatusStore()
	if cfg.RedisURL != "" {
		redisClient, err := redisx.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		statuses = service.NewRedisStatusStore(redisClient)
	}

	embedder := service.NewEmbeddingService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	completer := service.NewLLMService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel)
	idx := index.NewPGVector(db, embedder)

	local := service.NewLocalStore(cfg.StoragePath)
	var primary service.BlobStore = local
	if cfg.S3Bucket != "" {
		s3Store, err := service.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		primary = s3Store
	} else {
		slog.Warn("S3_BUCKET_NAME not set, storing uploads on local disk only")
	}
	storage := service.NewStorageService(primary, local)

	r := handler.SetupRouter(cfg, db, handler.Dependencies{
		Index:     idx,
		Completer: completer,
		Storage:   storage,
		Statuses:  statuses,
		Extractor: service.NewPDFExtractor(),
	})

	addr := cfg.Host + ":" + cfg.Port
	slog.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
