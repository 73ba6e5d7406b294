package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/order-intake/internal/config"
	"github.com/Lixing-Zhang/order-intake/internal/handlers"
	"github.com/Lixing-Zhang/order-intake/internal/keycrm"
	"github.com/Lixing-Zhang/order-intake/internal/middleware"
	"github.com/Lixing-Zhang/order-intake/internal/service"
	"github.com/Lixing-Zhang/order-intake/internal/telemetry"
	"github.com/Lixing-Zhang/order-intake/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	log.Info("starting order intake server",
		zap.String("port", cfg.Server.Port),
		zap.String("host", cfg.Server.Host),
		zap.String("log_level", cfg.LogLevel),
	)

	shutdownTracing, err := telemetry.Setup(context.Background(), telemetry.Config{
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.OTLPEndpoint,
		ServiceName: cfg.Tracing.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}

	// KeyCRM credentials are checked once here. When they are missing the
	// server still starts and every submission fails with a configuration error.
	crmConfig := keycrm.Config{
		Token:    cfg.KeyCRM.Token,
		SourceID: cfg.KeyCRM.SourceID,
		BaseURL:  cfg.KeyCRM.BaseURL,
	}
	var orderService *service.OrderService
	crmClient, crmErr := keycrm.NewClient(crmConfig, nil)
	if crmErr != nil {
		log.Error("KeyCRM settings are missing", zap.Error(crmErr))
	} else {
		orderService = service.NewOrderService(crmClient, crmClient.SourceID())
		log.Info("KeyCRM client configured", zap.Int64("source_id", crmClient.SourceID()))
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log, crmErr == nil)
	orderHandler := handlers.NewOrderHandler(orderService, crmErr, cfg.Server.MaxBodyBytes, log)

	r := newRouter(cfg, log, healthHandler, orderHandler)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	if err := shutdownTracing(ctx); err != nil {
		log.Warn("failed to flush traces", zap.Error(err))
	}

	log.Info("server stopped gracefully")
}

// newRouter mounts the handlers behind the shared middleware stack.
// Every request runs inside a server span; the span is a no-op unless
// tracing is enabled.
func newRouter(cfg *config.Config, log *zap.Logger, health *handlers.HealthHandler, orders *handlers.OrderHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	// The storefront posts from the browser
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", health.ServeHTTP)

	// The handler answers every method itself so non-POST requests get a JSON 405
	r.HandleFunc("/api/submit-order", orders.SubmitOrder)

	return otelhttp.NewHandler(r, cfg.Tracing.ServiceName)
}
