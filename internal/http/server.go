// Package http provides the HTTP server, routing, and middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/dataproof/internal/auth/http"
	authService "github.com/allisson/dataproof/internal/auth/service"
	cryptoService "github.com/allisson/dataproof/internal/crypto/service"
	explorerHTTP "github.com/allisson/dataproof/internal/explorer/http"
	explorerService "github.com/allisson/dataproof/internal/explorer/service"
	ipfsService "github.com/allisson/dataproof/internal/ipfs/service"
	"github.com/allisson/dataproof/internal/metrics"
	proofHTTP "github.com/allisson/dataproof/internal/proof/http"
)

// healthProbeTimeout bounds each dependency probe on the health endpoint.
const healthProbeTimeout = 2 * time.Second

// RouterConfig carries the handlers, middleware knobs, and health probes
// used by SetupRouter.
type RouterConfig struct {
	ProofHandler    *proofHTTP.ProofHandler
	KeyHandler      *proofHTTP.KeyHandler
	ExplorerHandler *explorerHTTP.ExplorerHandler

	// Admin gate for key rotation and proof decryption.
	AdminKeyHash    string
	AdminKeyService authService.AdminKeyService

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	CORSEnabled      bool
	CORSAllowOrigins string

	// Optional metrics provider. When set, HTTP metrics middleware is applied.
	MetricsProvider  *metrics.Provider
	MetricsNamespace string

	// Health probes. Nil probes are reported as "disabled".
	Store       ipfsService.Client
	KeyProvider cryptoService.KeyProvider
	Explorer    explorerService.Explorer
}

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger

	store       ipfsService.Client
	keyProvider cryptoService.KeyProvider
	explorer    explorerService.Explorer
}

// NewServer creates a new HTTP server. Routes are registered separately
// via SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin router with middleware and routes.
func (s *Server) SetupRouter(cfg RouterConfig) {
	s.store = cfg.Store
	s.keyProvider = cfg.KeyProvider
	s.explorer = cfg.Explorer

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.RateLimitEnabled {
		router.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	if cfg.ProofHandler != nil {
		proofs := v1.Group("/proofs")
		proofs.POST("", cfg.ProofHandler.CreateHandler)
		proofs.GET("", cfg.ProofHandler.ListHandler)
		proofs.GET("/decryption-guide", cfg.ProofHandler.GuideHandler)
		proofs.GET("/:cid", cfg.ProofHandler.VerifyHandler)
	}

	if cfg.KeyHandler != nil {
		keys := v1.Group("/keys")
		keys.GET("/info", cfg.KeyHandler.InfoHandler)
	}

	// Privileged routes require the admin key.
	if cfg.AdminKeyService != nil {
		admin := v1.Group("")
		admin.Use(authHTTP.AdminKeyMiddleware(cfg.AdminKeyHash, cfg.AdminKeyService, s.logger))

		if cfg.ProofHandler != nil {
			admin.POST("/proofs/:cid/decrypt", cfg.ProofHandler.DecryptHandler)
		}
		if cfg.KeyHandler != nil {
			admin.POST("/keys/rotate", cfg.KeyHandler.RotateHandler)
		}
	}

	if cfg.ExplorerHandler != nil {
		v1.GET("/subscription/status", cfg.ExplorerHandler.SubscriptionStatusHandler)
		v1.GET("/transactions/:hash/status", cfg.ExplorerHandler.TransactionStatusHandler)
	}

	s.router = router
}

// healthHandler reports liveness plus per-dependency status. It always
// returns 200 so that a degraded dependency does not take the process out
// of rotation; callers inspect the component map for details.
func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	components := gin.H{}
	status := "healthy"

	if s.store != nil {
		if err := s.store.TestAuthentication(ctx); err != nil {
			components["store"] = "error"
			status = "degraded"
		} else {
			components["store"] = "ok"
		}
	} else {
		components["store"] = "disabled"
	}

	if s.keyProvider != nil {
		components["key_provider"] = s.keyProvider.Info().Source
	} else {
		components["key_provider"] = "disabled"
	}

	if s.explorer != nil {
		if err := s.explorer.Ping(ctx); err != nil {
			components["explorer"] = "error"
			status = "degraded"
		} else {
			components["explorer"] = "ok"
		}
	} else {
		components["explorer"] = "disabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"components": components,
	})
}

// readinessHandler reports whether the server can accept traffic. The
// database is the only hard dependency for serving reads of the record
// index, so readiness gates on it. A nil database means the in-memory
// index is in use and there is nothing to probe.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	if s.db == nil {
		components["database"] = "disabled"
		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness probe failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	components["database"] = "ok"
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Handler returns the configured router for embedding in test servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
