// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/ccpush/go-interact-backend/internal/config"
	"github.com/ccpush/go-interact-backend/internal/domain"
	"github.com/ccpush/go-interact-backend/internal/http/handlers"
	"github.com/ccpush/go-interact-backend/internal/http/middleware"
	"github.com/ccpush/go-interact-backend/internal/push"
	"github.com/ccpush/go-interact-backend/internal/repo"
	"github.com/ccpush/go-interact-backend/internal/services"
)

// interactionRepoShim adapts the repository free functions to the
// services.InteractionRepo interface expected by the InteractionService.
// This keeps services decoupled from the concrete repo package while reusing
// existing functions.
type interactionRepoShim struct{}

// CreateInteraction proxies repo.CreateInteraction.
func (interactionRepoShim) CreateInteraction(ctx context.Context, db *gorm.DB, destination, typ, title, message string, metadata domain.JSONMap, timeout time.Duration, now time.Time) (*domain.Interaction, error) {
	return repo.CreateInteraction(ctx, db, destination, typ, title, message, metadata, timeout, now)
}

// GetInteraction proxies repo.GetInteraction.
func (interactionRepoShim) GetInteraction(ctx context.Context, db *gorm.DB, id string) (*domain.Interaction, error) {
	return repo.GetInteraction(ctx, db, id)
}

// MarkStatus proxies repo.MarkStatus.
func (interactionRepoShim) MarkStatus(ctx context.Context, db *gorm.DB, id, status string, response domain.JSONMap, respondedAt *time.Time) (bool, error) {
	return repo.MarkStatus(ctx, db, id, status, response, respondedAt)
}

// statsShim adapts repo.CollectInteractionStats to handlers.StatsProvider.
type statsShim struct{ db *gorm.DB }

// CollectStats proxies repo.CollectInteractionStats.
func (s statsShim) CollectStats(ctx context.Context) (*repo.InteractionStats, error) {
	return repo.CollectInteractionStats(ctx, s.db)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS, security headers, gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, notifier push.Notifier, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Compress JSON responses (metrics endpoint already mounted above).
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/notifier
	interactionSvc := services.NewInteractionService(db, interactionRepoShim{}, notifier)
	interactionSvc.DefaultTimeout = time.Duration(cfg.DefaultTimeoutSeconds) * time.Second

	waitSvc := services.NewWaitService(interactionSvc)
	waitSvc.PollEvery = cfg.PollInterval
	waitSvc.MaxBudget = time.Duration(cfg.MaxWaitSeconds) * time.Second

	pushSvc := &services.PushService{Notifier: notifier}

	h := handlers.New(interactionSvc, waitSvc, pushSvc, statsShim{db: db})

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Interactions
		api.POST("/interactions", h.CreateInteraction)
		api.GET("/interactions/:id", h.GetInteraction)
		api.POST("/interactions/:id/respond", h.RespondInteraction)
		api.POST("/interactions/:id/wait", h.WaitInteraction)

		// Generic push
		api.POST("/push", h.SendPush)

		// Ops
		api.GET("/stats", h.Stats)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
