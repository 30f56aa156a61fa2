package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngenohkevin/aura-explorer/config"
	"github.com/ngenohkevin/aura-explorer/internal/explorer"
	"github.com/ngenohkevin/aura-explorer/internal/logging"
	"github.com/ngenohkevin/aura-explorer/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	handlers   *Handlers
	auth       *AuthService
	limiter    *RateLimiter
	httpServer *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, ws *explorer.Workspace) *Server {
	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	auth := NewAuthService(cfg.APIKey, cfg.JWTSecret)
	limiter := NewRateLimiter(cfg.RateLimitRPS)
	handlers := NewHandlers(cfg, ws, auth)

	s := &Server{
		cfg:      cfg,
		router:   router,
		handlers: handlers,
		auth:     auth,
		limiter:  limiter,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(RequestIDMiddleware())
	s.router.Use(RecoveryMiddleware())
	s.router.Use(LoggerMiddleware())
	s.router.Use(CORSMiddleware(s.cfg.AllowedOrigins))
	s.router.Use(RateLimitMiddleware(s.limiter))
}

func (s *Server) setupRoutes() {
	// Health check and scrape endpoint (no auth)
	s.router.GET("/health", s.handlers.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	api.Use(AuthMiddleware(s.auth))
	{
		api.GET("/info", s.handlers.GetInfo)
		api.POST("/auth/token", RequireOwner(), s.handlers.IssueToken)

		// Files
		api.GET("/files", s.handlers.ListFiles)
		api.GET("/files/:id", s.handlers.GetFile)
		api.GET("/files/:id/content", s.handlers.GetFileContent)
		api.GET("/files/:id/breadcrumbs", s.handlers.GetBreadcrumbs)
		api.DELETE("/files/:id", RequireOwner(), s.handlers.DeleteFile)

		// View state
		api.POST("/view", s.handlers.DispatchView)

		// Import
		api.GET("/sources", s.handlers.ListSources)
		api.POST("/import", RequireOwner(), s.handlers.Import)

		// Storage
		api.GET("/storage", s.handlers.GetStorage)

		// Assistant
		api.GET("/assistant/messages", s.handlers.GetMessages)
		api.POST("/assistant/messages", s.handlers.PostMessage)

		// Real-time events (SSE)
		api.GET("/events", s.handlers.StreamEvents)
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully. Readiness is reported to systemd once the port is bound.
func (s *Server) Run(ctx context.Context) error {
	log := logging.L()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}

	notify(log, daemon.SdNotifyReady)
	log.Info("starting aura explorer", zap.String("addr", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down server")
		notify(log, daemon.SdNotifyStopping)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("server forced to shutdown", zap.Error(err))
		}
	}

	if err := s.handlers.Close(); err != nil {
		log.Warn("error closing handlers", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}

// notify reports state to systemd; it is a no-op outside a unit
func notify(log *zap.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		log.Warn("sd_notify failed", zap.String("state", state), zap.Error(err))
		return
	}
	if sent {
		log.Debug("sd_notify sent", zap.String("state", state))
	}
}

// Router returns the Gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
