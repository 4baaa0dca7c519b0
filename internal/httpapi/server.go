// Package httpapi exposes the ROI calculator over HTTP and WebSocket.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"calcforge/internal/calculator"
	"calcforge/internal/reporting"
	"calcforge/internal/templates"
)

// MaxBodyBytes bounds request bodies and stream frames.
const MaxBodyBytes = 1 << 20

// PDFRenderer prints a report to PDF.
type PDFRenderer interface {
	Render(ctx context.Context, r *reporting.Report) ([]byte, error)
}

// Server holds the API dependencies.
type Server struct {
	calc      *calculator.Service
	catalog   *templates.Catalog
	generator *reporting.Generator
	pdf       PDFRenderer
	origins   map[string]bool
	logger    *log.Logger
	upgrader  websocket.Upgrader
	stream    StreamConfig
}

// StreamConfig holds WebSocket timeouts.
type StreamConfig struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages, extended by every pong.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultStreamConfig returns default WebSocket configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		PingInterval: 30 * time.Second,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Options for creating Server.
type Options struct {
	Calculator  *calculator.Service // required
	Catalog     *templates.Catalog  // required
	Generator   *reporting.Generator
	PDF         PDFRenderer // nil disables PDF export
	CORSOrigins []string
	Stream      StreamConfig
	Logger      *log.Logger
}

// New creates a new Server.
func New(opts Options) (*Server, error) {
	if opts.Calculator == nil {
		return nil, errors.New("httpapi: calculator is required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("httpapi: template catalog is required")
	}

	s := &Server{
		calc:      opts.Calculator,
		catalog:   opts.Catalog,
		generator: opts.Generator,
		pdf:       opts.PDF,
		origins:   make(map[string]bool, len(opts.CORSOrigins)),
		logger:    opts.Logger,
		stream:    opts.Stream,
	}
	if s.generator == nil {
		s.generator = reporting.NewGenerator(opts.Calculator.Config())
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.stream == (StreamConfig{}) {
		s.stream = DefaultStreamConfig()
	}
	for _, o := range opts.CORSOrigins {
		s.origins[o] = true
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID, s.cors, s.instrument)

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/calc", s.handleCalc).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/calc/stream", s.handleStream).Methods(http.MethodGet)
	api.HandleFunc("/templates", s.handleTemplates).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/templates/{vertical}", s.handleTemplate).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/export/{format}", s.handleExport).Methods(http.MethodPost, http.MethodOptions)

	return r
}

// checkOrigin allows same-host clients without an Origin header and configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return s.origins["*"] || s.origins[origin]
}
