package roi

import (
	"fmt"
)

// ROIBasis selects the running-cost part of the ROI denominator.
// The one-time implementation cost is always included.
type ROIBasis string

const (
	ROIBasisFirstYearAICost    ROIBasis = "first_year_ai_cost"
	ROIBasisTotalAICost        ROIBasis = "total_ai_cost"
	ROIBasisImplementationOnly ROIBasis = "implementation_only"
)

// RiskTreatment selects how risk_adjustment enters the model.
type RiskTreatment string

const (
	// RiskDiscountSpread adds risk_adjustment to the discount rate.
	RiskDiscountSpread RiskTreatment = "discount_spread"
	// RiskContainmentHaircut scales containment by (1 - risk_adjustment)
	// and discounts at discount_rate alone.
	RiskContainmentHaircut RiskTreatment = "containment_haircut"
)

// ScenarioMethod selects how P10/P50/P90 are produced.
type ScenarioMethod string

const (
	ScenarioThreePoint ScenarioMethod = "three_point"
	ScenarioMonteCarlo ScenarioMethod = "monte_carlo"
)

// Config holds engine tuning. The zero value is not valid; start from DefaultConfig.
type Config struct {
	ROIBasis      ROIBasis      `yaml:"roi_basis" json:"roi_basis"`
	RiskTreatment RiskTreatment `yaml:"risk_treatment" json:"risk_treatment"`

	// Tornado
	TornadoSwing float64 `yaml:"tornado_swing" json:"tornado_swing"` // relative perturbation, 0.10 = ±10%
	TornadoTopN  int     `yaml:"tornado_top_n" json:"tornado_top_n"` // 0 keeps every driver

	// Scenario bands
	ScenarioMethod    ScenarioMethod `yaml:"scenario_method" json:"scenario_method"`
	ContainmentBand   float64        `yaml:"containment_band" json:"containment_band"`
	CostBand          float64        `yaml:"cost_band" json:"cost_band"`
	VolumeBand        float64        `yaml:"volume_band" json:"volume_band"` // monte_carlo only
	MonteCarloSamples int            `yaml:"monte_carlo_samples" json:"monte_carlo_samples"`
	Seed              uint64         `yaml:"seed" json:"seed"`

	// Workers bounds the Monte Carlo worker pool. 0 uses GOMAXPROCS.
	// It never changes results, so it is excluded from fingerprints.
	Workers int `yaml:"workers" json:"-"`
}

// Limits
const (
	MaxIntents           = 20
	MaxMonteCarloSamples = 100000
	ShareTolerance       = 0.01
)

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		ROIBasis:          ROIBasisFirstYearAICost,
		RiskTreatment:     RiskDiscountSpread,
		TornadoSwing:      0.10,
		TornadoTopN:       5,
		ScenarioMethod:    ScenarioThreePoint,
		ContainmentBand:   0.20,
		CostBand:          0.10,
		VolumeBand:        0.10,
		MonteCarloSamples: 1000,
		Seed:              42,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.ROIBasis {
	case ROIBasisFirstYearAICost, ROIBasisTotalAICost, ROIBasisImplementationOnly:
	default:
		return fmt.Errorf("%w: unknown roi_basis %q", ErrInvalidConfig, c.ROIBasis)
	}
	switch c.RiskTreatment {
	case RiskDiscountSpread, RiskContainmentHaircut:
	default:
		return fmt.Errorf("%w: unknown risk_treatment %q", ErrInvalidConfig, c.RiskTreatment)
	}
	switch c.ScenarioMethod {
	case ScenarioThreePoint, ScenarioMonteCarlo:
	default:
		return fmt.Errorf("%w: unknown scenario_method %q", ErrInvalidConfig, c.ScenarioMethod)
	}
	if c.TornadoSwing <= 0 || c.TornadoSwing > 1 {
		return fmt.Errorf("%w: tornado_swing must be in (0,1], got %v", ErrInvalidConfig, c.TornadoSwing)
	}
	if c.TornadoTopN < 0 {
		return fmt.Errorf("%w: tornado_top_n must be >= 0, got %d", ErrInvalidConfig, c.TornadoTopN)
	}
	bands := []struct {
		name  string
		value float64
	}{
		{"containment_band", c.ContainmentBand},
		{"cost_band", c.CostBand},
		{"volume_band", c.VolumeBand},
	}
	for _, b := range bands {
		if b.value < 0 || b.value >= 1 {
			return fmt.Errorf("%w: %s must be in [0,1), got %v", ErrInvalidConfig, b.name, b.value)
		}
	}
	if c.ScenarioMethod == ScenarioMonteCarlo {
		if c.MonteCarloSamples < 1 || c.MonteCarloSamples > MaxMonteCarloSamples {
			return fmt.Errorf("%w: monte_carlo_samples must be in [1,%d], got %d",
				ErrInvalidConfig, MaxMonteCarloSamples, c.MonteCarloSamples)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
