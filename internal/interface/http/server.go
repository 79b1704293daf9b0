// Package http exposes the tracker operations over a JSON REST API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dailywarden/warden/internal/application/command"
	"github.com/dailywarden/warden/internal/application/query"
	"github.com/dailywarden/warden/internal/interface/http/handlers"
	"github.com/dailywarden/warden/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Address to bind, host:port.
	Address string

	// RequestTimeout bounds every core call made on behalf of a request.
	RequestTimeout time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:        ":8080",
		RequestTimeout: 5 * time.Second,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains all handlers the routes call.
type Dependencies struct {
	// Commands
	Register   *command.RegisterHandler
	Unregister *command.UnregisterHandler
	Submit     *command.SubmitUpdateHandler
	SetTarget  *command.SetTargetHandler

	// Queries
	Status  *query.GetStatusHandler
	Today   *query.GetTodayReportHandler
	History *query.GetHistoryHandler

	Health *handlers.CompositeHealthChecker
	Logger *zap.Logger
}

var errMissingDependency = errors.New("http: missing dependency")

func (d Dependencies) validate() error {
	switch {
	case d.Register == nil, d.Unregister == nil:
		return fmt.Errorf("%w: membership handlers", errMissingDependency)
	case d.Submit == nil:
		return fmt.Errorf("%w: submit handler", errMissingDependency)
	case d.SetTarget == nil:
		return fmt.Errorf("%w: target handler", errMissingDependency)
	case d.Status == nil, d.Today == nil, d.History == nil:
		return fmt.Errorf("%w: query handlers", errMissingDependency)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewServer builds the router and server.
func NewServer(config Config, deps Dependencies) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Health == nil {
		deps.Health = handlers.NewCompositeHealthChecker("")
	}
	log := deps.Logger.With(logger.Component("http"))

	router := gin.New()
	router.Use(handlers.Recovery(log))
	router.Use(cors.New(corsConfig(config.AllowedOrigins)))
	router.Use(handlers.RequestID(log))
	router.Use(handlers.AccessLog(log))
	router.Use(handlers.Timeout(config.RequestTimeout))

	api := &apiHandler{deps: deps, logger: log}
	api.routes(router)

	return &Server{
		config: config,
		router: router,
		logger: log,
		httpServer: &http.Server{
			Addr:         config.Address,
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", handlers.HeaderRequestID},
		ExposeHeaders: []string{handlers.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens and serves in the background. It returns once the listener
// is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("http: listen %s: %w", s.config.Address, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("http server listening", zap.String("address", ln.Addr().String()))
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
