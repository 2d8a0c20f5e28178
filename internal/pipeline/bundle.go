package pipeline

import (
	"fmt"

	"pv-pipeline/internal/config"
	"pv-pipeline/internal/model"
)

// Bundle is the canonical unit of exchange between the pipeline and its
// consumers: a normalized, left-aligned, gap-free power series plus the
// metadata describing how it was produced.
//
// A Bundle is immutable after construction. Transformations (scaling,
// aggregation) return a new Bundle; the kWh representation is always
// derived from the kW series, never stored, so the two cannot drift.
type Bundle struct {
	Name   string
	Series model.TimeSeries // canonical kW

	// Unit is the unit of Series; always kW once assembly succeeded.
	Unit model.Unit
	// DeclaredUnit is the unit the source file was described with.
	DeclaredUnit    model.Unit
	IntervalMinutes int
	Role            model.Role
	Inverted        bool
	Color           string

	Scaling *Scaling
	// Base is the unscaled snapshot; re-scaling is always computed from
	// it so repeated scaling replaces rather than compounds.
	Base model.TimeSeries

	Source config.SeriesConfig
	Report model.ContinuityReport
	// Log records every transformation that ran, for the sidecar audit
	// trail.
	Log []string
}

// HoursPerInterval returns the bundle's interval duration in hours.
func (b *Bundle) HoursPerInterval() float64 {
	return HoursPerInterval(b.IntervalMinutes)
}

// EnergySeries derives the kWh representation of the bundle.
func (b *Bundle) EnergySeries() (model.TimeSeries, error) {
	return PowerToEnergy(b.Series, b.IntervalMinutes)
}

// TotalKWh returns the energy sum over the whole series.
func (b *Bundle) TotalKWh() float64 {
	return b.Series.Sum() * b.HoursPerInterval()
}

// ScaleToPeak returns a new bundle whose peak power equals targetKW.
// The factor is computed from the unscaled snapshot, so calling this on an
// already-scaled bundle replaces the previous scaling.
func (b *Bundle) ScaleToPeak(targetKW float64) (*Bundle, error) {
	factor, err := PeakFactor(b.Base, b.Unit, targetKW)
	if err != nil {
		return nil, err
	}
	return b.rescaled(Scaling{Kind: ScaleKindPeak, Target: targetKW, Factor: factor}), nil
}

// ScaleToTotal returns a new bundle whose derived energy sums to targetKWh,
// computed from the unscaled snapshot like ScaleToPeak.
func (b *Bundle) ScaleToTotal(targetKWh float64) (*Bundle, error) {
	factor, err := TotalFactor(b.Base, b.IntervalMinutes, targetKWh)
	if err != nil {
		return nil, err
	}
	return b.rescaled(Scaling{Kind: ScaleKindTotal, Target: targetKWh, Factor: factor}), nil
}

func (b *Bundle) rescaled(sc Scaling) *Bundle {
	out := *b
	out.Series = b.Base.Scale(sc.Factor)
	out.Scaling = &sc
	out.Log = append(append([]string(nil), b.Log...),
		fmt.Sprintf("scaled to %s target %g (factor %g)", sc.Kind, sc.Target, sc.Factor))
	return &out
}
