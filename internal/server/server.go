package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reiviji/storescan/internal/model"
	"github.com/reiviji/storescan/internal/task"
)

// Server exposes the task manager over HTTP.
type Server struct {
	// manager executes and tracks harvest tasks.
	manager *task.Manager

	// logger is used for request-level logging.
	logger *slog.Logger

	// engine is the configured gin router.
	engine *gin.Engine
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets a custom logger for the HTTP layer.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server around the given task manager.
func New(manager *task.Manager, opts ...ServerOption) *Server {
	s := &Server{manager: manager}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", s.handleHealth)
	engine.POST("/tasks", s.handleSubmit)
	engine.GET("/tasks/:id", s.handleStatus)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler, for use with httptest or a custom
// http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server on the given address and blocks until it
// stops.
func (s *Server) Run(addr string) error {
	s.logger.Info("task service listening", "addr", addr)
	return s.engine.Run(addr)
}

// submitRequest is the POST /tasks body.
type submitRequest struct {
	// Links lists the store listings to harvest.
	Links []submitLink `json:"links" binding:"required,min=1,dive"`

	// ScrapeDetails requests per-product detail scraping after the
	// listing walk.
	ScrapeDetails bool `json:"scrape_details"`
}

// submitLink is one store listing in a submit request.
type submitLink struct {
	URL   string `json:"url" binding:"required,url"`
	Pages int    `json:"pages"`
}

// handleSubmit accepts a harvest job and returns 202 with the task ID.
func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records := make([]model.LinkRecord, 0, len(req.Links))
	for _, link := range req.Links {
		pages := link.Pages
		if pages < 1 {
			pages = 1
		}
		records = append(records, model.LinkRecord{
			SourceURL: link.URL,
			PageCount: pages,
		})
	}

	// The task outlives this request, so detach it from the request
	// context while keeping its values.
	ctx := context.WithoutCancel(c.Request.Context())
	t := s.manager.Submit(ctx, records, req.ScrapeDetails)
	s.logger.Info("task submitted",
		"task_id", t.ID,
		"stores", len(records),
	)

	c.JSON(http.StatusAccepted, gin.H{
		"task_id":    t.ID,
		"status":     t.Status,
		"message":    "harvest accepted",
		"status_url": "/tasks/" + t.ID,
	})
}

// handleStatus returns the current state of one task.
func (s *Server) handleStatus(c *gin.Context) {
	t, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"tasks":  s.manager.Count(),
	})
}
