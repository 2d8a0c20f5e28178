package analysis

import (
	"fmt"
	"time"

	"pv-pipeline/internal/model"
)

// StorageRow is one interval of storage-simulation output, the primary
// artifact for "what the battery did".
type StorageRow struct {
	Index     int
	Timestamp time.Time

	LoadKW       float64
	GenerationKW float64

	ChargedKWh    float64 // energy drawn from surplus into the battery
	DischargedKWh float64 // energy delivered from the battery to the load

	FeedInKW  float64 // residual export after charging
	GridUseKW float64 // residual import after discharging

	SOCStart float64
	SOCEnd   float64
}

// StorageResult summarizes a storage simulation.
type StorageResult struct {
	Ledger []StorageRow

	TotalChargedKWh    float64
	TotalDischargedKWh float64
	TotalFeedInKWh     float64
	TotalGridUseKWh    float64
	FinalSOC           float64
}

// SimulateStorage runs a home battery against the load/generation balance,
// interval by interval: surplus generation charges the battery before it
// is exported, deficits are served from the battery before the grid.
func SimulateStorage(sc *SelfConsumption, batt *model.Battery) (*StorageResult, error) {
	if batt == nil {
		return nil, fmt.Errorf("battery is nil")
	}
	if sc == nil || len(sc.Load) == 0 {
		return nil, fmt.Errorf("no intervals")
	}

	hours := float64(sc.IntervalMinutes) / 60.0
	res := &StorageResult{Ledger: make([]StorageRow, 0, len(sc.Load))}

	for i := range sc.Load {
		load := sc.Load[i].Value
		gen := sc.Generation[i].Value

		row := StorageRow{
			Index:        i,
			Timestamp:    sc.Load[i].Timestamp,
			LoadKW:       load,
			GenerationKW: gen,
			SOCStart:     batt.SOC(),
		}

		surplus := gen - load
		if surplus > 0 {
			charged := batt.Charge(surplus, hours)
			row.ChargedKWh = charged
			row.FeedInKW = surplus - charged/hours
		} else if surplus < 0 {
			deficit := -surplus
			delivered := batt.Discharge(deficit, hours)
			row.DischargedKWh = delivered
			row.GridUseKW = deficit - delivered/hours
		}

		row.SOCEnd = batt.SOC()

		res.TotalChargedKWh += row.ChargedKWh
		res.TotalDischargedKWh += row.DischargedKWh
		res.TotalFeedInKWh += row.FeedInKW * hours
		res.TotalGridUseKWh += row.GridUseKW * hours
		res.Ledger = append(res.Ledger, row)
	}

	res.FinalSOC = batt.SOC()
	return res, nil
}
