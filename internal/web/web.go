// Package web implements the HTTP API: health and status probes, the stored
// snapshots as JSON, and the rendered lesson plan page.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/planwatch/internal/config"
	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/report"
	"github.com/jonesrussell/planwatch/internal/store"
	"github.com/jonesrussell/planwatch/internal/watcher"
)

// readHeaderTimeout is the timeout for reading request headers.
const readHeaderTimeout = 10 * time.Second

// StatsProvider yields the watcher's progress counters.
type StatsProvider interface {
	Stats() watcher.Stats
}

// StatusResponse is the payload returned by /api/status.
type StatusResponse struct {
	Status   string                `json:"status"`
	FirstRun bool                  `json:"first_run"`
	Plan     domain.PlanMetadata   `json:"plan"`
	Cancel   domain.CancelMetadata `json:"cancel"`
	Stats    watcher.Stats         `json:"stats"`
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(log logger.Interface, s store.Interface, stats StatsProvider) *gin.Engine {
	// Disable Gin's default logging
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/status", handleStatus(s, stats, log))
	api.GET("/plan", handlePlan(s, log))
	api.GET("/cancel", handleCancel(s, log))

	router.GET("/", handleReport(s, log))

	return router
}

// StartHTTPServer builds the HTTP server around the configured router.
func StartHTTPServer(
	log logger.Interface,
	s store.Interface,
	stats StatsProvider,
	cfg config.Interface,
) (*http.Server, error) {
	router := SetupRouter(log, s, stats)
	serverCfg := cfg.GetServerConfig()

	srv := &http.Server{
		Addr:              serverCfg.Address,
		Handler:           router,
		ReadTimeout:       serverCfg.ReadTimeout,
		WriteTimeout:      serverCfg.WriteTimeout,
		IdleTimeout:       serverCfg.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return srv, nil
}

// loggingMiddleware creates a middleware that logs HTTP requests.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// handleStatus reports liveness, both snapshots' metadata and the watcher
// counters.
func handleStatus(s store.Interface, stats StatsProvider, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		plan, err := s.Plan(c.Request.Context())
		if err != nil {
			log.Error("failed to load plan snapshot", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan snapshot"})
			return
		}
		cancel, err := s.Cancel(c.Request.Context())
		if err != nil {
			log.Error("failed to load cancellations snapshot", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cancellations snapshot"})
			return
		}

		resp := StatusResponse{
			Status:   "ok",
			FirstRun: s.FirstRun(),
			Plan:     plan.Metadata,
			Cancel:   cancel.Metadata,
		}
		if stats != nil {
			resp.Stats = stats.Stats()
		}
		c.JSON(http.StatusOK, resp)
	}
}

// handlePlan returns the stored plan snapshot as JSON.
func handlePlan(s store.Interface, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := s.Plan(c.Request.Context())
		if err != nil {
			log.Error("failed to load plan snapshot", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan snapshot"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// handleCancel returns the stored cancellations snapshot as JSON.
func handleCancel(s store.Interface, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := s.Cancel(c.Request.Context())
		if err != nil {
			log.Error("failed to load cancellations snapshot", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cancellations snapshot"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// handleReport serves the rendered lesson plan page.
func handleReport(s store.Interface, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := s.Plan(c.Request.Context())
		if err != nil {
			log.Error("failed to load plan snapshot", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan snapshot"})
			return
		}
		page, err := report.Render(snap)
		if err != nil {
			log.Error("failed to render plan report", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render plan report"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}
