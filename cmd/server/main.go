// Package main runs the ROI calculator API:
// - API server: calculations, templates, exports, live recalculation stream
// - Metrics server: /metrics, /health, /status
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calcforge/internal/cache"
	"calcforge/internal/calculator"
	"calcforge/internal/config"
	"calcforge/internal/httpapi"
	"calcforge/internal/observability"
	"calcforge/internal/reporting"
	"calcforge/internal/roi"
	"calcforge/internal/templates"
)

// Server holds the running components.
type Server struct {
	cfg    *config.Server
	api    *http.Server
	logger *log.Logger

	// Set once before serving; read-only afterwards.
	started    time.Time
	cacheKind  string
	pdfEnabled bool
}

func main() {
	// Load .env file if exists
	if err := config.LoadEnvFile(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	// Parse flags (env vars as defaults)
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create result cache
	store, cacheKind, err := createCache(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create cache: %v", err)
	}
	defer store.Close()
	logger.Printf("Result cache: %s (ttl %v)", cacheKind, cfg.CacheTTL)

	engine, err := roi.NewEngine(cfg.Engine)
	if err != nil {
		logger.Fatalf("Invalid engine config: %v", err)
	}
	logger.Printf("Engine: scenario_method=%s roi_basis=%s risk_treatment=%s",
		cfg.Engine.ScenarioMethod, cfg.Engine.ROIBasis, cfg.Engine.RiskTreatment)

	svc, err := calculator.New(calculator.Options{
		Engine: engine,
		Cache:  store,
		Logger: log.New(os.Stdout, "[calculator] ", log.LstdFlags|log.Lshortfile),
	})
	if err != nil {
		logger.Fatalf("Failed to create calculator: %v", err)
	}

	catalog, err := templates.Default()
	if err != nil {
		logger.Fatalf("Failed to load templates: %v", err)
	}

	// PDF export is optional
	var pdf httpapi.PDFRenderer
	renderer := reporting.NewPDFRenderer(cfg.ChromePath)
	if renderer.Available() {
		pdf = renderer
	} else {
		logger.Println("No Chromium found, PDF export disabled")
	}

	api, err := httpapi.New(httpapi.Options{
		Calculator:  svc,
		Catalog:     catalog,
		Generator:   reporting.NewGenerator(cfg.Engine),
		PDF:         pdf,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log.New(os.Stdout, "[api] ", log.LstdFlags|log.Lshortfile),
	})
	if err != nil {
		logger.Fatalf("Failed to create API: %v", err)
	}

	server := &Server{
		cfg: cfg,
		api: &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:     logger,
		started:    time.Now(),
		cacheKind:  cacheKind,
		pdfEnabled: pdf != nil,
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start metrics server
	go server.startMetricsServer(cfg.MetricsAddr)

	// Run the API server
	err = server.Run(ctx)
	done <- err

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createCache selects Redis when configured, otherwise the in-memory store.
func createCache(ctx context.Context, cfg *config.Server) (cache.Store, string, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryStore(cfg.CacheTTL, cache.DefaultMaxEntries), "memory", nil
	}
	store, err := cache.NewRedisStore(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		return nil, "", err
	}
	return store, "redis", nil
}

// Run serves the API until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting API server on %s", s.api.Addr)
		if err := s.api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := s.api.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// startMetricsServer starts the HTTP server for health/metrics/status.
func (s *Server) startMetricsServer(addr string) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	s.logger.Printf("Starting metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("Metrics server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status         string    `json:"status"`
	Uptime         string    `json:"uptime"`
	Started        time.Time `json:"started"`
	APIAddr        string    `json:"api_addr"`
	Cache          string    `json:"cache"`
	PDFExport      bool      `json:"pdf_export"`
	ScenarioMethod string    `json:"scenario_method"`
	ROIBasis       string    `json:"roi_basis"`
	RiskTreatment  string    `json:"risk_treatment"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:         "running",
		Uptime:         time.Since(s.started).String(),
		Started:        s.started,
		APIAddr:        s.cfg.Addr,
		Cache:          s.cacheKind,
		PDFExport:      s.pdfEnabled,
		ScenarioMethod: string(s.cfg.Engine.ScenarioMethod),
		ROIBasis:       string(s.cfg.Engine.ROIBasis),
		RiskTreatment:  string(s.cfg.Engine.RiskTreatment),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
