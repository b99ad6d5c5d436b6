// Package server exposes the validation engine and override ledger over
// HTTP for the approval-workflow collaborator.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/certwise/coiguard/internal/analysis"
	"github.com/certwise/coiguard/internal/engine"
	"github.com/certwise/coiguard/internal/ledger"
	"github.com/certwise/coiguard/internal/storage"
)

// Server wires the engine, ledger and analyzer behind an HTTP API.
type Server struct {
	engine          *engine.Engine
	ledger          *ledger.Ledger
	store           *storage.SQLiteStorage
	analyzer        analysis.Analyzer
	analysisTimeout time.Duration
	httpServer      *http.Server
}

// Config holds server configuration.
type Config struct {
	Addr            string
	AnalysisTimeout time.Duration
}

// New creates a server.
func New(cfg Config, eng *engine.Engine, led *ledger.Ledger, store *storage.SQLiteStorage, analyzer analysis.Analyzer) *Server {
	s := &Server{
		engine:          eng,
		ledger:          led,
		store:           store,
		analyzer:        analyzer,
		analysisTimeout: cfg.AnalysisTimeout,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/validate", s.handleValidate)
		api.GET("/cois/:id/result", s.handleLatestResult)
		api.GET("/cois/:id/overrides", s.handleListOverrides)
		api.POST("/cois/:id/overrides", s.handleRecordOverride)
		api.POST("/cois/:id/overrides/revoke", s.handleRevokeOverride)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routing tree, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request with latency and status.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/health" {
			return
		}
		slog.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
