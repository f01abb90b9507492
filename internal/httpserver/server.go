// Package httpserver hosts the Lambda handlers behind plain HTTP routes for
// local development.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"travel-assistant/internal/domain"
	"travel-assistant/internal/envelope"
)

const ServiceName = "travel-assistant"

type WebhookHandler interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

type ActionHandler interface {
	Handle(ctx context.Context, ev domain.InboundEvent) (envelope.ActionResponse, error)
}

type MemoryHandler interface {
	Handle(ctx context.Context, ev domain.InboundEvent) (envelope.APIResponse, error)
}

// Config is the dependency bag passed to New. Nil handlers leave their route
// unregistered.
type Config struct {
	Port    int
	Mode    string
	Webhook WebhookHandler
	Actions ActionHandler
	Memory  MemoryHandler
}

// Server is the local development HTTP front for the Lambda handlers.
type Server struct {
	gin  *gin.Engine
	log  zerolog.Logger
	port int
}

// New builds the gin engine and mounts the configured routes.
func New(log zerolog.Logger, cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, errors.New("httpserver: port is required")
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &Server{gin: gin.New(), log: log, port: cfg.Port}
	srv.gin.Use(gin.Recovery(), srv.requestLogger())
	srv.gin.GET("/health", srv.health)

	if cfg.Webhook != nil {
		srv.gin.POST("/webhook", srv.webhook(cfg.Webhook))
	}
	if cfg.Actions != nil {
		srv.gin.POST("/actions", invoke(cfg.Actions.Handle))
	}
	if cfg.Memory != nil {
		srv.gin.POST("/memory", invoke(cfg.Memory.Handle))
	}
	return srv, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Int("port", s.port).Msg("dev server listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("dev server shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request served")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}
