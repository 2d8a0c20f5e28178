package pipeline

import (
	"fmt"

	"pv-pipeline/internal/model"
)

// ScalingKind names which target a scaling factor was computed against.
type ScalingKind string

const (
	ScaleKindPeak  ScalingKind = "peak"
	ScaleKindTotal ScalingKind = "total"
)

// Scaling records a scaling applied to a bundle, for provenance.
type Scaling struct {
	Kind   ScalingKind
	Target float64
	Factor float64
}

// PeakFactor computes the uniform factor that scales a power series to the
// target peak: target / max(abs(kW)). Peak scaling is only meaningful on a
// power series; energy-declared data must be converted first.
func PeakFactor(s model.TimeSeries, unit model.Unit, targetKW float64) (float64, error) {
	if unit != model.UnitKW {
		return 0, &model.ScalingError{Kind: string(ScaleKindPeak), Message: fmt.Sprintf("peak scaling requires a power series, got %s", unit)}
	}
	peak := s.MaxAbs()
	if peak == 0 {
		return 0, &model.ScalingError{Kind: string(ScaleKindPeak), Message: "series peak is zero"}
	}
	return targetKW / peak, nil
}

// TotalFactor computes the uniform factor that scales a power series so
// its derived energy sums to the target: target / sum(kW * interval/60).
func TotalFactor(s model.TimeSeries, intervalMinutes int, targetKWh float64) (float64, error) {
	if intervalMinutes <= 0 {
		return 0, &model.ScalingError{Kind: string(ScaleKindTotal), Message: "interval must be positive"}
	}
	total := s.Sum() * HoursPerInterval(intervalMinutes)
	if total == 0 {
		return 0, &model.ScalingError{Kind: string(ScaleKindTotal), Message: "series energy total is zero"}
	}
	return targetKWh / total, nil
}
