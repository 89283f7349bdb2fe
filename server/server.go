// Package server assembles the echo HTTP server: middleware, API routes,
// metrics endpoint and the background conversation cleanup job.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/voiceforge/voiceforge/buildsim"
	"github.com/voiceforge/voiceforge/conversation"
	"github.com/voiceforge/voiceforge/internal/profile"
	"github.com/voiceforge/voiceforge/internal/util"
	"github.com/voiceforge/voiceforge/metrics"
	apiv1 "github.com/voiceforge/voiceforge/server/router/api/v1"
)

type Server struct {
	echoServer *echo.Echo

	Profile *profile.Profile
	Store   *conversation.Store

	apiService *apiv1.APIV1Service
	cleanupJob *conversation.CleanupJob
}

// NewServer wires the store, generator, build simulator and metrics into an
// echo instance.
func NewServer(ctx context.Context, instanceProfile *profile.Profile, store *conversation.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return util.HasPrefixes(c.Path(), "/api", "/metrics")
		},
	}))
	e.Use(requestLogger())

	exporter := metrics.NewExporter(metrics.DefaultConfig())

	simulator, err := buildsim.NewSimulator(ctx, buildsim.Config{
		StepDelay:     instanceProfile.BuildStepDelay,
		MaxConcurrent: instanceProfile.MaxConcurrentBuilds,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create build simulator")
	}

	apiService, err := apiv1.NewAPIV1Service(instanceProfile, store, simulator, exporter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create api service")
	}
	apiService.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	cleanupJob := conversation.NewCleanupJob(store, conversation.CleanupConfig{
		Retention:        instanceProfile.ConversationTTL,
		CleanupInterval:  instanceProfile.ConversationSweepInterval,
		MaxConversations: instanceProfile.MaxConversations,
		OnSweep: func(_, remaining int) {
			exporter.SetActiveConversations(remaining)
		},
	})

	return &Server{
		echoServer: e,
		Profile:    instanceProfile,
		Store:      store,
		apiService: apiService,
		cleanupJob: cleanupJob,
	}, nil
}

// Start launches the HTTP listener and the cleanup job. It returns
// immediately; listen errors other than graceful close are logged.
func (s *Server) Start(ctx context.Context) error {
	s.cleanupJob.Start(ctx)

	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		if err := s.echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start http server", "error", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the listener and the cleanup job.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.cleanupJob.Stop()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("voiceforge stopped properly")
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	})
}
