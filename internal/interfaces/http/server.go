// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application
// service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/herbolab/submission-workflow/internal/application/service"
	appworkflow "github.com/herbolab/submission-workflow/internal/application/workflow"
	"github.com/herbolab/submission-workflow/internal/domain/workflow"
	"github.com/herbolab/submission-workflow/internal/infrastructure/settings"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	submissionService service.SubmissionService,
	documentService service.DocumentService,
	notificationService service.NotificationService,
	orchestrator *appworkflow.Orchestrator,
	contentRouter *workflow.Router,
	settingsService *settings.Service,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config: config,
		router: router,
		handlers: NewHandlers(
			submissionService,
			documentService,
			notificationService,
			orchestrator,
			contentRouter,
			settingsService,
			logger,
		),
		logger: logger,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Logging middleware
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request details
		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := s.handlers

	// Health check
	s.router.GET("/health", h.HealthCheck)

	// API routes
	api := s.router.Group("/api")
	{
		// Submissions
		api.POST("/submissions", h.CreateSubmission)
		api.GET("/submissions", h.ListSubmissions)
		api.GET("/submissions/:id", h.GetSubmission)
		api.PUT("/submissions/:id/personnel", h.AssignPersonnel)
		api.POST("/submissions/:id/finalize", h.FinalizeDraft)

		// Evidence bags
		api.POST("/submissions/:id/bags", h.AddBag)
		api.DELETE("/submissions/:id/bags/:bagID", h.RemoveBag)
		api.PUT("/submissions/:id/bags/:bagID/assessment", h.RecordAssessment)

		// Workflow
		api.GET("/submissions/:id/workflow", h.GetWorkflow)
		api.POST("/submissions/:id/advance", h.AdvancePhase)
		api.POST("/submissions/:id/send-back", h.SendBack)
		api.GET("/submissions/:id/history", h.GetHistory)

		// Documents
		api.POST("/submissions/:id/documents/certificate", h.GenerateCertificate)
		api.POST("/submissions/:id/documents/invoice", h.GenerateInvoice)
		api.GET("/submissions/:id/documents", h.ListDocuments)

		// Notifications
		api.POST("/submissions/:id/notifications", h.DispatchNotifications)
		api.POST("/submissions/:id/notifications/retry", h.RetryNotifications)
		api.GET("/submissions/:id/notifications", h.ListNotifications)

		// Laboratory settings
		api.GET("/settings", h.GetSettings)
		api.POST("/settings/reset", h.ResetSettings)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
