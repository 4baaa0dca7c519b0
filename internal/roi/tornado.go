package roi

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"calcforge/internal/domain"
)

// driver scales one input by a factor on a private copy of the deal.
type driver struct {
	name  string
	apply func(in *domain.DealInputs, factor float64)
}

// tornadoDrivers returns the fixed driver list plus one containment driver
// per intent when the deal has more than one intent.
func tornadoDrivers(in domain.DealInputs) []driver {
	drivers := []driver{
		{name: "annual_calls", apply: func(d *domain.DealInputs, f float64) {
			d.AnnualCalls *= f
		}},
		{name: "agent_cost_per_min", apply: func(d *domain.DealInputs, f float64) {
			d.AgentCostPerMin *= f
		}},
		{name: "polyai_cost_per_min", apply: func(d *domain.DealInputs, f float64) {
			d.PolyAICostPerMin *= f
		}},
		{name: "telco_cost_per_min", apply: func(d *domain.DealInputs, f float64) {
			d.TelcoCostPerMin *= f
		}},
		{name: "avg_minutes", apply: func(d *domain.DealInputs, f float64) {
			for i := range d.Intents {
				d.Intents[i].AvgMinutes *= f
			}
		}},
		{name: "containment_m3", apply: func(d *domain.DealInputs, f float64) {
			for i := range d.Intents {
				d.Intents[i].ContainmentM3 = clamp01(d.Intents[i].ContainmentM3 * f)
			}
		}},
		{name: "baseline_abandon_rate", apply: func(d *domain.DealInputs, f float64) {
			d.BaselineAbandonRate = clamp01(d.BaselineAbandonRate * f)
		}},
		{name: "ai_abandon_rate", apply: func(d *domain.DealInputs, f float64) {
			d.AIAbandonRate = clamp01(d.AIAbandonRate * f)
		}},
		{name: "volume_growth", apply: func(d *domain.DealInputs, f float64) {
			d.VolumeGrowth = floorGrowth(d.VolumeGrowth * f)
		}},
		{name: "inflation", apply: func(d *domain.DealInputs, f float64) {
			d.Inflation = floorGrowth(d.Inflation * f)
		}},
		{name: "discount_rate", apply: func(d *domain.DealInputs, f float64) {
			d.DiscountRate *= f
		}},
	}

	if len(in.Intents) < 2 {
		return drivers
	}
	for i, row := range in.Intents {
		idx := i
		label := row.Name
		if label == "" {
			label = fmt.Sprintf("intent %d", i+1)
		}
		drivers = append(drivers, driver{
			name: "containment: " + label,
			apply: func(d *domain.DealInputs, f float64) {
				d.Intents[idx].ContainmentM3 = clamp01(d.Intents[idx].ContainmentM3 * f)
			},
		})
	}
	return drivers
}

// computeTornado perturbs each driver by ±swing on its own copy of the inputs and
// ranks drivers by |impact|, where impact = (npv_high - npv_low) / 2.
// Drivers are evaluated concurrently; the base inputs are never written.
func computeTornado(ctx context.Context, in domain.DealInputs, cfg Config) ([]domain.TornadoEntry, error) {
	drivers := tornadoDrivers(in)
	entries := make([]domain.TornadoEntry, len(drivers))

	var wg sync.WaitGroup
	for i, d := range drivers {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, d driver) {
			defer wg.Done()
			low := in.Clone()
			d.apply(&low, 1-cfg.TornadoSwing)
			high := in.Clone()
			d.apply(&high, 1+cfg.TornadoSwing)
			entries[i] = domain.TornadoEntry{
				Driver: d.name,
				Impact: (npv(high, cfg) - npv(low, cfg)) / 2,
			}
		}(i, d)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortTornado(entries)
	if cfg.TornadoTopN > 0 && len(entries) > cfg.TornadoTopN {
		entries = entries[:cfg.TornadoTopN]
	}
	return entries, nil
}

// sortTornado orders by descending |impact|, then driver name.
func sortTornado(entries []domain.TornadoEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ai, aj := math.Abs(entries[i].Impact), math.Abs(entries[j].Impact)
		if ai != aj {
			return ai > aj
		}
		return entries[i].Driver < entries[j].Driver
	})
}

// growthFloor keeps perturbed growth rates inside the validated range (> -1).
const growthFloor = -0.99

func floorGrowth(v float64) float64 {
	if v < growthFloor {
		return growthFloor
	}
	return v
}
