package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/example/moodtracker/internal/ledger"
	"github.com/example/moodtracker/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MoodService is the ledger as seen by the HTTP handlers
type MoodService interface {
	Today() string
	Status(ctx context.Context) (ledger.Status, error)
	GetLatestMood(ctx context.Context) (models.Mood, error)
	SetMood(ctx context.Context, day string, mood models.Mood) error
	History(ctx context.Context, limit int) ([]models.MoodRecord, error)
	Stats(ctx context.Context, limit int) (ledger.Stats, error)
}

// Config holds HTTP settings
type Config struct {
	Addr         string
	Mode         string // gin mode: debug, release or test
	HistoryLimit int
}

// Server serves the mood page and JSON API
type Server struct {
	engine  *gin.Engine
	http    *http.Server
	service MoodService
	logger  *zap.Logger
	config  Config
}

// New builds the router
func New(cfg Config, service MoodService, logger *zap.Logger) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		engine:  gin.New(),
		service: service,
		logger:  logger,
		config:  cfg,
	}
	s.engine.SetHTMLTemplate(template.Must(template.New(indexTemplate).Parse(indexHTML)))
	s.engine.Use(gin.Recovery(), requestID(), accessLog(logger))
	s.routes()

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.index)
	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api")
	{
		api.GET("", s.getMood)
		api.POST("/:value", s.setMood)
		api.GET("/history", s.history)
		api.GET("/stats", s.stats)
		api.GET("/export.xlsx", s.export)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.config.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
