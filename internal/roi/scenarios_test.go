package roi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcforge/internal/domain"
)

func TestScenarioConfigs_Defaults(t *testing.T) {
	configs := ScenarioConfigs(DefaultConfig())
	require.Len(t, configs, 3)

	want := []domain.ScenarioConfig{
		domain.ScenarioConfigPessimistic,
		domain.ScenarioConfigBase,
		domain.ScenarioConfigOptimistic,
	}
	for i, sc := range configs {
		assert.Equal(t, want[i].ScenarioID, sc.ScenarioID)
		assert.InDelta(t, want[i].ContainmentFactor, sc.ContainmentFactor, 1e-12, sc.ScenarioID)
		assert.InDelta(t, want[i].PolyAICostFactor, sc.PolyAICostFactor, 1e-12, sc.ScenarioID)
		assert.Equal(t, 1.0, sc.AgentCostFactor)
		assert.Equal(t, 1.0, sc.VolumeFactor)
	}
}

func TestApplyScenario_ClampsAndCopies(t *testing.T) {
	in := exampleInputs()
	in.Intents[0].ContainmentM3 = 0.9

	out := ApplyScenario(in, domain.ScenarioConfigOptimistic)

	assert.Equal(t, 1.0, out.Intents[0].ContainmentM3)
	assert.InDelta(t, 0.6, out.Intents[0].ContainmentM0, 1e-12)
	assert.InDelta(t, 0.108, out.PolyAICostPerMin, 1e-12)
	// Base untouched
	assert.Equal(t, 0.9, in.Intents[0].ContainmentM3)
	assert.Equal(t, 0.12, in.PolyAICostPerMin)
}

func TestThreePointBands_Ordered(t *testing.T) {
	for _, in := range []domain.DealInputs{exampleInputs(), multiIntentInputs()} {
		res, err := Calculate(in)
		require.NoError(t, err)

		b := res.Scenarios
		assert.Equal(t, res.NPV5Y, b.P50)
		assert.Less(t, b.P10, b.P50)
		assert.Less(t, b.P50, b.P90)
	}
}

func TestMonteCarloBands_Ordered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScenarioMethod = ScenarioMonteCarlo
	cfg.MonteCarloSamples = 500

	bands, err := monteCarloBands(context.Background(), multiIntentInputs(), cfg)
	require.NoError(t, err)

	assert.LessOrEqual(t, bands.P10, bands.P50)
	assert.LessOrEqual(t, bands.P50, bands.P90)
	assert.Less(t, bands.P10, bands.P90, "non-zero bands should spread the estimates")
}

func TestMonteCarloBands_DeterministicAcrossWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScenarioMethod = ScenarioMonteCarlo
	cfg.MonteCarloSamples = 300

	cfg.Workers = 1
	single, err := monteCarloBands(context.Background(), exampleInputs(), cfg)
	require.NoError(t, err)

	cfg.Workers = 8
	parallel, err := monteCarloBands(context.Background(), exampleInputs(), cfg)
	require.NoError(t, err)

	assert.Equal(t, single, parallel)
}

func TestMonteCarloBands_SeedChangesResult(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScenarioMethod = ScenarioMonteCarlo
	cfg.MonteCarloSamples = 200

	a, err := monteCarloBands(context.Background(), exampleInputs(), cfg)
	require.NoError(t, err)

	cfg.Seed = 7
	b, err := monteCarloBands(context.Background(), exampleInputs(), cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestMonteCarloBands_ZeroBandsCollapse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScenarioMethod = ScenarioMonteCarlo
	cfg.MonteCarloSamples = 50
	cfg.ContainmentBand = 0
	cfg.CostBand = 0
	cfg.VolumeBand = 0

	in := exampleInputs()
	base := npv(in, cfg)

	bands, err := monteCarloBands(context.Background(), in, cfg)
	require.NoError(t, err)

	assert.InDelta(t, base, bands.P10, 1e-6)
	assert.InDelta(t, base, bands.P50, 1e-6)
	assert.InDelta(t, base, bands.P90, 1e-6)
}

func TestMonteCarloBands_Cancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScenarioMethod = ScenarioMonteCarlo

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := monteCarloBands(ctx, exampleInputs(), cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDrawScenario_WithinBands(t *testing.T) {
	cfg := DefaultConfig()
	for i := 0; i < 100; i++ {
		sc := drawScenario(cfg, i)
		assert.GreaterOrEqual(t, sc.ContainmentFactor, 1-cfg.ContainmentBand)
		assert.LessOrEqual(t, sc.ContainmentFactor, 1+cfg.ContainmentBand)
		assert.GreaterOrEqual(t, sc.PolyAICostFactor, 1-cfg.CostBand)
		assert.LessOrEqual(t, sc.PolyAICostFactor, 1+cfg.CostBand)
		assert.GreaterOrEqual(t, sc.VolumeFactor, 1-cfg.VolumeBand)
		assert.LessOrEqual(t, sc.VolumeFactor, 1+cfg.VolumeBand)
	}
}
