package domain

// ScenarioConfig represents multiplicative shifts applied to a deal
// to produce one band of the P10/P50/P90 range.
type ScenarioConfig struct {
	ScenarioID        string  // "p10" | "p50" | "p90"
	ContainmentFactor float64 // applied to containment_m0 and containment_m3, result clamped to [0,1]
	PolyAICostFactor  float64 // applied to polyai_cost_per_min
	AgentCostFactor   float64 // applied to agent_cost_per_min
	VolumeFactor      float64 // applied to annual_calls
}

// Scenario ID constants
const (
	ScenarioPessimistic = "p10"
	ScenarioBase        = "p50"
	ScenarioOptimistic  = "p90"
)

// Predefined three-point scenarios.
// P10 loses 20% containment and pays 10% more for AI minutes; P90 is the mirror.
var (
	ScenarioConfigPessimistic = ScenarioConfig{
		ScenarioID:        ScenarioPessimistic,
		ContainmentFactor: 0.8,
		PolyAICostFactor:  1.1,
		AgentCostFactor:   1.0,
		VolumeFactor:      1.0,
	}

	ScenarioConfigBase = ScenarioConfig{
		ScenarioID:        ScenarioBase,
		ContainmentFactor: 1.0,
		PolyAICostFactor:  1.0,
		AgentCostFactor:   1.0,
		VolumeFactor:      1.0,
	}

	ScenarioConfigOptimistic = ScenarioConfig{
		ScenarioID:        ScenarioOptimistic,
		ContainmentFactor: 1.2,
		PolyAICostFactor:  0.9,
		AgentCostFactor:   1.0,
		VolumeFactor:      1.0,
	}
)
