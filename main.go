package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"image-service/internal/handlers"
	"image-service/internal/logging"
	"image-service/internal/media"
	"image-service/internal/memory"
	"image-service/internal/metrics"
	"image-service/internal/middleware"
	"image-service/internal/pipeline"
	"image-service/internal/registry"
	"image-service/internal/startup"
	"image-service/internal/store"
	"image-service/internal/workers"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Size the Go heap against the container memory limit before any
	// decode work allocates.
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize libvips for RAW decoding. A missing libvips is not
	// fatal: the decoder falls back to dcraw.
	if err := media.InitVips(); err != nil {
		logging.Warn("libvips unavailable, RAW decoding falls back to dcraw: %v", err)
	}
	defer media.ShutdownVips()

	// Content store
	st, err := store.New(config.UploadDir)
	if err != nil {
		startup.LogFatal("Failed to initialize content store: %v", err)
	}

	// Asset registry
	regStart := time.Now()
	reg, err := registry.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize asset registry: %v", err)
	}
	defer reg.Close()
	startup.LogRegistryInit(time.Since(regStart))

	// Pipeline
	p := pipeline.New(config, st, reg)
	startup.LogPipelineInit(workers.ForCPU(0))

	// Handlers and router
	h := handlers.New(config, p, st, reg)
	router := setupRouter(h)

	loggedHandler := middleware.Logger(middleware.DefaultLoggingConfig())(router)
	meteredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(meteredHandler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metricsSrv = startMetricsServer(config.MetricsPort)
	}

	go handleShutdown(srv, metricsSrv)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Upload routes
	r.HandleFunc("/upload/single", h.UploadSingle).Methods("POST")
	r.HandleFunc("/upload/multiple", h.UploadMultiple).Methods("POST")
	r.HandleFunc("/upload/preset", h.UploadPreset).Methods("POST")

	// Stored artifact retrieval
	r.HandleFunc("/uploads/{folder}/{filename}", h.ServeFile).Methods("GET", "HEAD")
	r.HandleFunc("/assets/{filename}", h.GetAssetInfo).Methods("GET")

	return r
}

// startMetricsServer serves Prometheus metrics on a dedicated port so
// scrapes never contend with uploads.
func startMetricsServer(port string) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      metricsMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error("Metrics server error: %v", err)
		}
	}()
	return srv
}

func handleShutdown(srv, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
}
