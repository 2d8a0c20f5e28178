package analysis

import (
	"time"

	"pv-pipeline/internal/model"
	"pv-pipeline/internal/pipeline"
)

// SeriesStats is a bundle-level summary for display and ranking.
type SeriesStats struct {
	Name string
	Role model.Role

	Rows            int
	IntervalMinutes int
	Start           time.Time
	End             time.Time
	UniqueDays      int

	SumKW  float64
	MeanKW float64
	PeakKW float64

	MinKW   float64
	MinAt   time.Time
	MaxKW   float64
	MaxAt   time.Time

	// AnnualKWh is the derived energy total: sum(kW) * interval/60.
	AnnualKWh float64

	// CapacityFactor is mean/peak, 0 when the peak is zero.
	CapacityFactor float64
}

// ComputeStats summarizes a bundle.
func ComputeStats(b *pipeline.Bundle) SeriesStats {
	st := SeriesStats{
		Name:            b.Name,
		Role:            b.Role,
		Rows:            len(b.Series),
		IntervalMinutes: b.IntervalMinutes,
	}
	if len(b.Series) == 0 {
		return st
	}
	st.Start = b.Series.First().Timestamp
	st.End = b.Series.Last().Timestamp
	st.UniqueDays = b.Series.UniqueDays()

	st.SumKW = b.Series.Sum()
	st.MeanKW = b.Series.Mean()
	st.PeakKW = b.Series.MaxAbs()

	min := b.Series.Min()
	max := b.Series.Max()
	st.MinKW, st.MinAt = min.Value, min.Timestamp
	st.MaxKW, st.MaxAt = max.Value, max.Timestamp

	st.AnnualKWh = b.TotalKWh()
	if st.PeakKW > 0 {
		st.CapacityFactor = st.MeanKW / st.PeakKW
	}
	return st
}
