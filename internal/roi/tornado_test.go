package roi

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcforge/internal/domain"
)

func TestComputeTornado_SortedByAbsImpact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TornadoTopN = 0

	for _, in := range []domain.DealInputs{exampleInputs(), multiIntentInputs()} {
		entries, err := computeTornado(context.Background(), in, cfg)
		require.NoError(t, err)
		require.NotEmpty(t, entries)

		for i := 1; i < len(entries); i++ {
			if math.Abs(entries[i].Impact) > math.Abs(entries[i-1].Impact) {
				t.Errorf("entry %d (%s, %v) has larger |impact| than entry %d (%s, %v)",
					i, entries[i].Driver, entries[i].Impact, i-1, entries[i-1].Driver, entries[i-1].Impact)
			}
		}
	}
}

func TestComputeTornado_DriverSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TornadoTopN = 0

	single, err := computeTornado(context.Background(), exampleInputs(), cfg)
	require.NoError(t, err)
	assert.Len(t, single, 11)

	multi, err := computeTornado(context.Background(), multiIntentInputs(), cfg)
	require.NoError(t, err)
	assert.Len(t, multi, 14)

	names := make(map[string]bool)
	for _, e := range multi {
		names[e.Driver] = true
	}
	for _, want := range []string{"annual_calls", "agent_cost_per_min", "containment_m3", "baseline_abandon_rate",
		"volume_growth", "discount_rate", "containment: Orders", "containment: Returns", "containment: Account"} {
		assert.True(t, names[want], "missing driver %q", want)
	}
}

func TestComputeTornado_TopN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TornadoTopN = 3

	entries, err := computeTornado(context.Background(), multiIntentInputs(), cfg)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestComputeTornado_AnnualCallsIsLinear(t *testing.T) {
	// NPV is linear in volume, so a ±10% swing moves it by 10% of base NPV.
	cfg := DefaultConfig()
	cfg.TornadoTopN = 0
	in := exampleInputs()
	base := npv(in, cfg)

	entries, err := computeTornado(context.Background(), in, cfg)
	require.NoError(t, err)

	for _, e := range entries {
		if e.Driver == "annual_calls" {
			assert.InDelta(t, 0.1*base, e.Impact, 1e-6*math.Abs(base))
			return
		}
	}
	t.Fatal("annual_calls driver not found")
}

func TestComputeTornado_Signs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TornadoTopN = 0

	entries, err := computeTornado(context.Background(), exampleInputs(), cfg)
	require.NoError(t, err)

	byName := make(map[string]float64)
	for _, e := range entries {
		byName[e.Driver] = e.Impact
	}
	assert.Greater(t, byName["agent_cost_per_min"], 0.0, "dearer agents make AI more valuable")
	assert.Less(t, byName["polyai_cost_per_min"], 0.0, "dearer AI minutes reduce value")
	assert.Greater(t, byName["containment_m3"], 0.0)
	assert.Less(t, byName["discount_rate"], 0.0)
	// No revenue_per_abandon, so abandonment does not move NPV.
	assert.Zero(t, byName["baseline_abandon_rate"])
}

func TestComputeTornado_DoesNotMutateBase(t *testing.T) {
	in := multiIntentInputs()
	before := in.Clone()

	_, err := computeTornado(context.Background(), in, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, before, in)
}

func TestComputeTornado_ClampsContainment(t *testing.T) {
	in := exampleInputs()
	in.Intents[0].ContainmentM3 = 1.0

	d := tornadoDrivers(in)
	var containment driver
	for _, x := range d {
		if x.name == "containment_m3" {
			containment = x
		}
	}
	require.NotNil(t, containment.apply)

	high := in.Clone()
	containment.apply(&high, 1.1)
	assert.Equal(t, 1.0, high.Intents[0].ContainmentM3)
}

func TestComputeTornado_FloorsGrowthRates(t *testing.T) {
	in := exampleInputs()
	in.VolumeGrowth = -0.6
	in.Inflation = -0.6

	for _, d := range tornadoDrivers(in) {
		if d.name != "volume_growth" && d.name != "inflation" {
			continue
		}
		perturbed := in.Clone()
		d.apply(&perturbed, 2.0)
		assert.Greater(t, perturbed.VolumeGrowth, -1.0, d.name)
		assert.Greater(t, perturbed.Inflation, -1.0, d.name)
		assert.NoError(t, Validate(perturbed), d.name)
	}

	cfg := DefaultConfig()
	cfg.TornadoSwing = 1.0
	cfg.TornadoTopN = 0
	entries, err := computeTornado(context.Background(), in, cfg)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, math.IsNaN(e.Impact) || math.IsInf(e.Impact, 0), e.Driver)
	}
}

func TestSortTornado_TieBreakByName(t *testing.T) {
	entries := []domain.TornadoEntry{
		{Driver: "b", Impact: 5},
		{Driver: "a", Impact: -5},
		{Driver: "c", Impact: 10},
		{Driver: "d", Impact: 1},
	}
	sortTornado(entries)

	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.Driver
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, got)
}
