package analysis

import (
	"fmt"
	"math"

	"pv-pipeline/internal/model"
	"pv-pipeline/internal/pipeline"
)

// SelfConsumption holds the per-interval energy-balance decomposition of a
// site with both load and generation:
//
//	SelfUse = min(load, generation)   consumed on site
//	FeedIn  = generation - SelfUse    exported to the grid
//	GridUse = load - SelfUse          imported from the grid
//
// All series share the timestamps of the inputs and are in kW.
type SelfConsumption struct {
	Load       model.TimeSeries
	Generation model.TimeSeries
	SelfUse    model.TimeSeries
	FeedIn     model.TimeSeries
	GridUse    model.TimeSeries

	IntervalMinutes int
}

// SumRoles sums all bundle series sharing the given role into one series.
// Every bundle must sit on the same timestamp grid.
func SumRoles(bundles []*pipeline.Bundle, role model.Role) (model.TimeSeries, int, error) {
	var out model.TimeSeries
	interval := 0
	for _, b := range bundles {
		if b.Role != role {
			continue
		}
		if out == nil {
			out = b.Series.Clone()
			interval = b.IntervalMinutes
			continue
		}
		if len(b.Series) != len(out) || b.IntervalMinutes != interval {
			return nil, 0, fmt.Errorf("bundle %q does not share the common grid (%d rows at %dmin, want %d rows at %dmin)",
				b.Name, len(b.Series), b.IntervalMinutes, len(out), interval)
		}
		for i := range out {
			if !out[i].Timestamp.Equal(b.Series[i].Timestamp) {
				return nil, 0, fmt.Errorf("bundle %q timestamp mismatch at row %d", b.Name, i)
			}
			out[i].Value += b.Series[i].Value
		}
	}
	return out, interval, nil
}

// ComputeSelfConsumption decomposes the summed load and generation bundles.
// It needs at least one bundle of each role on a shared grid.
func ComputeSelfConsumption(bundles []*pipeline.Bundle) (*SelfConsumption, error) {
	load, loadInterval, err := SumRoles(bundles, model.RoleLoad)
	if err != nil {
		return nil, err
	}
	gen, genInterval, err := SumRoles(bundles, model.RoleGeneration)
	if err != nil {
		return nil, err
	}
	if load == nil || gen == nil {
		return nil, fmt.Errorf("self-consumption needs both a load and a generation series")
	}
	if len(load) != len(gen) || loadInterval != genInterval {
		return nil, fmt.Errorf("load and generation are on different grids (%d rows at %dmin vs %d rows at %dmin)",
			len(load), loadInterval, len(gen), genInterval)
	}

	sc := &SelfConsumption{
		Load:            load,
		Generation:      gen,
		SelfUse:         make(model.TimeSeries, len(load)),
		FeedIn:          make(model.TimeSeries, len(load)),
		GridUse:         make(model.TimeSeries, len(load)),
		IntervalMinutes: loadInterval,
	}
	for i := range load {
		if !load[i].Timestamp.Equal(gen[i].Timestamp) {
			return nil, fmt.Errorf("load and generation timestamp mismatch at row %d", i)
		}
		ts := load[i].Timestamp
		selfUse := math.Min(load[i].Value, gen[i].Value)
		sc.SelfUse[i] = model.Point{Timestamp: ts, Value: selfUse}
		sc.FeedIn[i] = model.Point{Timestamp: ts, Value: gen[i].Value - selfUse}
		sc.GridUse[i] = model.Point{Timestamp: ts, Value: load[i].Value - selfUse}
	}
	return sc, nil
}
