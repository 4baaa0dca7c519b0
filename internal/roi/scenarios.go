package roi

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"

	"calcforge/internal/domain"
)

// ScenarioConfigs returns the P10/P50/P90 shifts used by the three-point method.
// P10 lowers containment and raises the AI per-minute price; P90 mirrors it.
// Agent cost stays fixed: a dearer agent widens savings, so it cannot
// make a case pessimistic. Containment shifts apply to m0 and m3 so the
// whole ramp moves together.
func ScenarioConfigs(cfg Config) []domain.ScenarioConfig {
	pessimistic := domain.ScenarioConfigPessimistic
	pessimistic.ContainmentFactor = 1 - cfg.ContainmentBand
	pessimistic.PolyAICostFactor = 1 + cfg.CostBand

	optimistic := domain.ScenarioConfigOptimistic
	optimistic.ContainmentFactor = 1 + cfg.ContainmentBand
	optimistic.PolyAICostFactor = 1 - cfg.CostBand

	return []domain.ScenarioConfig{pessimistic, domain.ScenarioConfigBase, optimistic}
}

// ApplyScenario returns a copy of in with the scenario shifts applied.
func ApplyScenario(in domain.DealInputs, sc domain.ScenarioConfig) domain.DealInputs {
	out := in.Clone()
	out.AnnualCalls *= sc.VolumeFactor
	out.AgentCostPerMin *= sc.AgentCostFactor
	out.PolyAICostPerMin *= sc.PolyAICostFactor
	for i := range out.Intents {
		out.Intents[i].ContainmentM0 = clamp01(out.Intents[i].ContainmentM0 * sc.ContainmentFactor)
		out.Intents[i].ContainmentM3 = clamp01(out.Intents[i].ContainmentM3 * sc.ContainmentFactor)
	}
	return out
}

// computeScenarios produces P10/P50/P90 NPV estimates.
func computeScenarios(ctx context.Context, in domain.DealInputs, baseNPV float64, cfg Config) (domain.Bands, error) {
	if cfg.ScenarioMethod == ScenarioMonteCarlo {
		return monteCarloBands(ctx, in, cfg)
	}
	return threePointBands(ctx, in, baseNPV, cfg)
}

// threePointBands evaluates the pessimistic and optimistic shifts concurrently.
// P50 is the base-case NPV.
func threePointBands(ctx context.Context, in domain.DealInputs, baseNPV float64, cfg Config) (domain.Bands, error) {
	configs := ScenarioConfigs(cfg)
	values := make([]float64, len(configs))

	var wg sync.WaitGroup
	for i, sc := range configs {
		if sc.ScenarioID == domain.ScenarioBase {
			values[i] = baseNPV
			continue
		}
		wg.Add(1)
		go func(i int, sc domain.ScenarioConfig) {
			defer wg.Done()
			values[i] = npv(ApplyScenario(in, sc), cfg)
		}(i, sc)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Bands{}, err
	}
	return domain.Bands{P10: values[0], P50: values[1], P90: values[2]}, nil
}

// monteCarloBands samples independent uniform shifts on containment, unit costs
// and volume, then reads P10/P50/P90 off the sorted NPVs.
// Draw i uses its own PCG stream seeded with (Seed, i), so results do not
// depend on worker count or scheduling.
func monteCarloBands(ctx context.Context, in domain.DealInputs, cfg Config) (domain.Bands, error) {
	n := cfg.MonteCarloSamples
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	samples := make([]float64, n)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				samples[i] = npv(ApplyScenario(in, drawScenario(cfg, i)), cfg)
			}
		}()
	}

dispatch:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Bands{}, err
	}

	sort.Float64s(samples)
	return domain.Bands{
		P10: computePercentile(samples, 0.10),
		P50: computePercentile(samples, 0.50),
		P90: computePercentile(samples, 0.90),
	}, nil
}

// drawScenario samples one set of shifts for draw i.
func drawScenario(cfg Config, i int) domain.ScenarioConfig {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
	uniform := func(band float64) float64 {
		return 1 - band + 2*band*rng.Float64()
	}
	return domain.ScenarioConfig{
		ScenarioID:        "sample",
		ContainmentFactor: uniform(cfg.ContainmentBand),
		PolyAICostFactor:  uniform(cfg.CostBand),
		AgentCostFactor:   uniform(cfg.CostBand),
		VolumeFactor:      uniform(cfg.VolumeBand),
	}
}
