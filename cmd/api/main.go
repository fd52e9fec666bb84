package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cadportal/internal/blobstore"
	"cadportal/internal/config"
	"cadportal/internal/database"
	"cadportal/internal/pkg/jwt"
	"cadportal/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := config.SetupLogger(cfg)
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		MaxOpenConns: 20,
		MaxIdleConns: 5,
		Debug:        cfg.DBDebug,
	}, logger)
	if err != nil {
		logger.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = database.Close(db) }()

	if cfg.AutoMigrate {
		if err := database.Migrate(db, server.Models()...); err != nil {
			logger.Error("migration failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Error("blob store init failed", slog.Any("error", err))
		os.Exit(1)
	}

	srv, err := server.New(server.Options{
		Addr:            cfg.HTTPAddr,
		ReadTimeout:     cfg.ReadTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		FileCacheSize:   cfg.FileCacheSize,
		FileCacheTTL:    cfg.FileCacheTTL,
	}, db, store, jwt.New(cfg.JWTSecret, cfg.JWTTTL), logger)
	if err != nil {
		logger.Error("server init failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("cadportal api starting",
		slog.String("env", cfg.AppEnv),
		slog.String("storage", cfg.StorageDriver),
	)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	if cfg.StorageDriver == config.StorageMemory {
		return blobstore.NewMemoryStore(cfg.PublicBaseURL + server.BlobsPath), nil
	}
	return blobstore.NewS3Store(ctx, blobstore.S3Config{
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		Region:       cfg.S3.Region,
		Bucket:       cfg.S3.Bucket,
		Endpoint:     cfg.S3.Endpoint,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
}
