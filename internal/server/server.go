package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fridgechef/backend/config"
	"github.com/fridgechef/backend/internal/api"
	"github.com/fridgechef/backend/internal/middleware"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router          *gin.Engine
	http            *http.Server
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

// New builds the gin engine with the shared middleware chain and the API routes.
func New(cfg config.ServerConfig, deps api.Dependencies, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}

	router := gin.New()
	router.Use(requestid.New())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	api.RegisterRoutes(router, deps)

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the server is shut down. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Run starts the server and blocks until ctx is done or the process gets
// SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.Start)
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
