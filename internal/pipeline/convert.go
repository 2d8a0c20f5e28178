package pipeline

import (
	"pv-pipeline/internal/model"
)

// HoursPerInterval returns the interval duration in hours, the single
// constant both conversion directions are built on.
func HoursPerInterval(intervalMinutes int) float64 {
	return float64(intervalMinutes) / 60.0
}

// PowerToEnergy derives a kWh series from a kW series:
// energy[i] = power[i] * (interval/60). A plain scalar multiply, so the
// operation is exact for finite inputs and NaN/Inf propagate untouched.
func PowerToEnergy(s model.TimeSeries, intervalMinutes int) (model.TimeSeries, error) {
	if intervalMinutes <= 0 {
		return nil, &model.ConversionError{IntervalMinutes: intervalMinutes, Unit: model.UnitKW, Message: "interval must be positive"}
	}
	h := HoursPerInterval(intervalMinutes)
	out := make(model.TimeSeries, len(s))
	for i, p := range s {
		out[i] = model.Point{Timestamp: p.Timestamp, Value: p.Value * h}
	}
	return out, nil
}

// EnergyToPower is the exact inverse of PowerToEnergy:
// power[i] = energy[i] / (interval/60).
func EnergyToPower(s model.TimeSeries, intervalMinutes int) (model.TimeSeries, error) {
	if intervalMinutes <= 0 {
		return nil, &model.ConversionError{IntervalMinutes: intervalMinutes, Unit: model.UnitKWh, Message: "interval must be positive"}
	}
	h := HoursPerInterval(intervalMinutes)
	out := make(model.TimeSeries, len(s))
	for i, p := range s {
		out[i] = model.Point{Timestamp: p.Timestamp, Value: p.Value / h}
	}
	return out, nil
}

// ToCanonicalPower adapts a series in its declared unit to the canonical
// power (kW) representation. kW input passes through; kWh (legacy meter
// exports) is converted once here so no downstream stage branches on unit.
func ToCanonicalPower(s model.TimeSeries, unit model.Unit, intervalMinutes int) (model.TimeSeries, error) {
	switch unit {
	case model.UnitKW:
		if intervalMinutes <= 0 {
			return nil, &model.ConversionError{IntervalMinutes: intervalMinutes, Unit: unit, Message: "interval must be positive"}
		}
		return s.Clone(), nil
	case model.UnitKWh:
		return EnergyToPower(s, intervalMinutes)
	default:
		return nil, &model.ConversionError{IntervalMinutes: intervalMinutes, Unit: unit, Message: "unit must be kW or kWh"}
	}
}
