// Package calculator coordinates the ROI engine with the result cache and metrics.
// It is the single entry point used by the HTTP API, the live stream and the CLI.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"time"

	"calcforge/internal/cache"
	"calcforge/internal/domain"
	"calcforge/internal/idhash"
	"calcforge/internal/observability"
	"calcforge/internal/roi"
)

// Meta describes how a result was produced.
type Meta struct {
	Fingerprint string
	CacheHit    bool
}

// Service runs calculations with optional memoisation.
type Service struct {
	engine *roi.Engine
	cache  cache.Store // nil disables caching
	logger *log.Logger
}

// Options for creating Service.
type Options struct {
	Engine *roi.Engine // required
	Cache  cache.Store // optional
	Logger *log.Logger // optional, discards when nil
}

// New creates a new Service.
func New(opts Options) (*Service, error) {
	if opts.Engine == nil {
		return nil, errors.New("calculator: engine is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		engine: opts.Engine,
		cache:  opts.Cache,
		logger: logger,
	}, nil
}

// Config returns the engine configuration.
func (s *Service) Config() roi.Config {
	return s.engine.Config()
}

// Calculate returns Results for in, serving from cache when possible.
// Validation failures are returned as *roi.ValidationError and never cached.
// Cache errors are logged and do not fail the calculation.
func (s *Service) Calculate(ctx context.Context, in domain.DealInputs) (*domain.Results, Meta, error) {
	cfg := s.engine.Config()
	method := string(cfg.ScenarioMethod)

	var meta Meta
	if err := roi.Validate(in); err != nil {
		s.recordFailure(method, err, 0)
		return nil, meta, err
	}

	fp, err := idhash.ComputeFingerprint(in, cfg)
	if err != nil {
		return nil, meta, fmt.Errorf("fingerprint: %w", err)
	}
	meta.Fingerprint = fp

	if s.cache != nil {
		res, err := s.cache.Get(ctx, fp)
		switch {
		case err == nil:
			observability.RecordCacheLookup(true)
			meta.CacheHit = true
			return res, meta, nil
		case errors.Is(err, cache.ErrMiss):
			observability.RecordCacheLookup(false)
		default:
			observability.RecordCacheError("get")
			s.logger.Printf("cache get %s: %v", fp, err)
		}
	}

	start := time.Now()
	res, err := s.engine.Calculate(ctx, in)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.recordFailure(method, err, elapsed)
		return nil, meta, err
	}
	observability.RecordCalculation(method, "success", elapsed)

	if s.cache != nil {
		if err := s.cache.Set(ctx, fp, res); err != nil {
			observability.RecordCacheError("set")
			s.logger.Printf("cache set %s: %v", fp, err)
		}
	}

	return res, meta, nil
}

func (s *Service) recordFailure(method string, err error, elapsed float64) {
	var verr *roi.ValidationError
	if errors.As(err, &verr) {
		observability.RecordValidationFailure(fieldLabel(verr.Field))
		observability.RecordCalculation(method, "invalid", elapsed)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		observability.RecordCalculation(method, "canceled", elapsed)
		return
	}
	observability.RecordCalculation(method, "error", elapsed)
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// fieldLabel collapses intent indexes to keep metric cardinality bounded.
func fieldLabel(field string) string {
	if field == "" {
		return "unknown"
	}
	return indexPattern.ReplaceAllString(field, "[]")
}
