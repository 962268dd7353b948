package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/mams/config"
	"example.com/mams/internal/api/handlers"
	"example.com/mams/internal/api/middleware"
	"example.com/mams/internal/metrics"
	"example.com/mams/internal/services"
	"example.com/mams/internal/tracing"
)

// Server represents the HTTP server
type Server struct {
	config          config.Config
	router          *gin.Engine
	httpServer      *http.Server
	authService     *services.AuthService
	ledgerService   *services.LedgerService
	movementService *services.MovementService
	auditService    *services.AuditService
	metrics         *metrics.Metrics
	tracer          tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	authService *services.AuthService,
	ledgerService *services.LedgerService,
	movementService *services.MovementService,
	auditService *services.AuditService,
	m *metrics.Metrics,
	tracer tracing.Tracer,
) *Server {
	server := &Server{
		config:          cfg,
		authService:     authService,
		ledgerService:   ledgerService,
		movementService: movementService,
		auditService:    auditService,
		metrics:         m,
		tracer:          tracer,
	}

	router := server.setupRouter()
	server.router = router

	httpServer := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}
	server.httpServer = httpServer

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	if s.config.CorsEnabled {
		router.Use(middleware.CORS(s.config.CorsOrigins))
	}
	if app := s.tracer.Application(); app != nil {
		router.Use(middleware.NewRelic(app))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Operational metrics snapshot
	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.metrics.Snapshot())
	})

	api := router.Group("/api")

	authHandler := handlers.NewAuthHandler(s.authService)
	authHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(s.config.Auth.JWTSecret))

	handlers.NewDashboardHandler(s.ledgerService).RegisterRoutes(protected)
	handlers.NewPurchaseHandler(s.movementService).RegisterRoutes(protected)
	handlers.NewTransferHandler(s.movementService).RegisterRoutes(protected)
	handlers.NewAssignmentHandler(s.movementService).RegisterRoutes(protected)
	handlers.NewAuditHandler(s.auditService).RegisterRoutes(protected)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
