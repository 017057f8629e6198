package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"readmekit/internal/admin"
	"readmekit/internal/api"
	"readmekit/internal/background"
	"readmekit/internal/config"
	"readmekit/internal/counter"
	"readmekit/internal/logger"
	"readmekit/internal/scheduler"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// newRouter builds the gin engine with every middleware and route.
func newRouter(cfg *config.Config, log *slog.Logger, store counter.Store, backgrounds api.BackgroundSource, tp trace.TracerProvider) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(api.Recovery(log), api.RequestID(), api.Tracing(tp))

	// gin's own logger is friendlier while developing.
	if cfg.Debug {
		router.Use(gin.Logger())
	} else {
		router.Use(api.AccessLog(log))
	}

	api.SetupRoutes(router, api.NewHandler(store, backgrounds, cfg, log))
	if admin.SetupRoutes(router, store, cfg, log) {
		log.Info("Admin routes enabled")
	}
	return router
}

func main() {
	// Load configuration
	cfg, warnings, err := config.LoadConfig("config.yaml")
	if err != nil {
		// Use a temporary logger for startup errors
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(cfg.Debug, cfg.LogFormat)
	log.Info("Logger initialized", "debug_mode", cfg.Debug, "format", cfg.LogFormat)
	for _, w := range warnings {
		log.Warn(w)
	}

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	store := counter.Traced(counter.NewStore(context.Background(), cfg, nil, log), tp)
	log.Info("Counter store ready", "backend", store.Backend())

	backgrounds := background.NewLoader(cfg.Background.Path, cfg.Background.FallbackURL, nil, log)
	sched, err := scheduler.NewScheduler(backgrounds, cfg.Background.Refresh, log)
	if err != nil {
		log.Error("Error creating scheduler", "error", err)
		os.Exit(1)
	}
	sched.RefreshBackground()
	sched.Start()

	router := newRouter(cfg, log, store, backgrounds, tp)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sched.Stop()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Warn("Tracer provider shutdown failed", "error", err)
	}

	log.Info("Server exiting")
}
