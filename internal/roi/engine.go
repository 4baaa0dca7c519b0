// Package roi implements the Voice-AI ROI projection engine.
// It turns DealInputs into a five-year forecast with payback, NPV, ROI,
// a tornado sensitivity ranking and P10/P50/P90 bands.
//
// The engine holds no mutable state and is safe for concurrent use.
package roi

import (
	"context"
	"fmt"

	"calcforge/internal/domain"
)

// Engine runs calculations with a fixed Config.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine. Returns ErrInvalidConfig if cfg is out of range.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Calculate validates inputs and produces Results.
// Invalid inputs return a *ValidationError and no Results. So do inputs
// that pass Validate but overflow during projection.
// Context cancellation stops tornado and scenario fan-out.
func (e *Engine) Calculate(ctx context.Context, in domain.DealInputs) (*domain.Results, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	yearly := Project(in, e.cfg)
	res := &domain.Results{
		Yearly:            yearly,
		PaybackMonths:     computePayback(yearly, in.ImplementationCost),
		NPV5Y:             computeNPV(yearly),
		ROI5Y:             computeROI(yearly, in.ImplementationCost, e.cfg.ROIBasis),
		OpsVsRevenueSplit: computeSplit(yearly),
	}
	if err := checkProjection(res); err != nil {
		return nil, err
	}

	tornado, err := computeTornado(ctx, in, e.cfg)
	if err != nil {
		return nil, fmt.Errorf("tornado: %w", err)
	}
	res.Tornado = tornado

	bands, err := computeScenarios(ctx, in, res.NPV5Y, e.cfg)
	if err != nil {
		return nil, fmt.Errorf("scenarios: %w", err)
	}
	res.Scenarios = bands

	if err := checkSensitivity(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Calculate runs the engine with DefaultConfig.
func Calculate(in domain.DealInputs) (*domain.Results, error) {
	e := &Engine{cfg: DefaultConfig()}
	return e.Calculate(context.Background(), in)
}
