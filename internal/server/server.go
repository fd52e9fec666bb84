// Package server assembles the portal's HTTP API and runs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"cadportal/internal/blobstore"
	"cadportal/internal/domain/account"
	"cadportal/internal/domain/project"
	"cadportal/internal/domain/upload"
	"cadportal/internal/middleware"
	"cadportal/internal/pkg/jwt"
	"cadportal/internal/pkg/validator"
)

// BlobsPath is where the in-process blob store is mounted.
const BlobsPath = "/blobs"

type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	FileCacheSize   int
	FileCacheTTL    time.Duration
}

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	opts       Options
}

// Models lists every table the portal owns, in migration order.
func Models() []any {
	return []any{
		&account.Customer{},
		&account.Worker{},
		&project.Project{},
		&project.Assignment{},
		&upload.FileRecord{},
	}
}

func New(opts Options, db *gorm.DB, store blobstore.Store, tokens *jwt.Service, logger *slog.Logger) (*Server, error) {
	if err := validator.RegisterGinValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	accountService := account.NewService(account.NewRepository(db))
	projectService := project.NewService(project.NewRepository(db), accountService, logger)
	uploadService := upload.NewService(
		upload.NewRepository(db),
		store,
		projectService,
		upload.NewRecordCache(opts.FileCacheSize, opts.FileCacheTTL),
		logger,
	)

	accountHandler := account.NewHandler(accountService, logger)
	projectHandler := project.NewHandler(projectService, logger)
	uploadHandler := upload.NewHandler(uploadService, accountService, logger)

	r := gin.New()
	r.Use(middleware.ErrorLogger(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.GET("/health", health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h, ok := store.(http.Handler); ok {
		r.Any(BlobsPath+"/:token", gin.WrapH(h))
	}

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(tokens))
	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())

	accountHandler.RegisterRoutes(protected, admin)
	projectHandler.RegisterRoutes(protected, admin)
	uploadHandler.RegisterRoutes(protected)

	return &Server{
		engine: r,
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       opts.ReadTimeout,
		},
		logger: logger.With(slog.String("component", "http_server")),
		opts:   opts,
	}, nil
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down http server")

		timeout := s.opts.ShutdownTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		s.logger.Info("http server stopped")
		return nil
	})

	return g.Wait()
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
