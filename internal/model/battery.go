package model

import (
	"errors"
	"math"
)

// BatteryParams defines the physical parameters of a home storage system.
// Units:
// - CapacityKWh: kWh
// - power caps: kW
// - efficiencies: 0..1
// - SOC bounds: fraction 0..1
// - SelfDischargeRate: fraction of stored energy lost per hour
type BatteryParams struct {
	CapacityKWh         float64
	MaxChargePowerKW    float64
	MaxDischargePowerKW float64
	ChargeEfficiency    float64
	DischargeEfficiency float64
	MinSOC              float64
	MaxSOC              float64
	SelfDischargeRate   float64
}

// BatteryState captures mutable state.
type BatteryState struct {
	// StoredKWh is the energy currently held, including the unusable
	// portion below MinSOC.
	StoredKWh float64
}

// Battery bundles params + state.
type Battery struct {
	Params BatteryParams
	State  BatteryState
}

func NewBattery(params BatteryParams, initialSOC float64) (*Battery, error) {
	b := &Battery{
		Params: params,
		State:  BatteryState{StoredKWh: params.CapacityKWh * initialSOC},
	}
	if err := b.Validate(initialSOC); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Battery) Validate(initialSOC float64) error {
	p := b.Params
	if p.CapacityKWh <= 0 {
		return errors.New("CapacityKWh must be > 0")
	}
	if p.MaxChargePowerKW <= 0 || p.MaxDischargePowerKW <= 0 {
		return errors.New("charge/discharge power caps must be > 0")
	}
	if p.ChargeEfficiency <= 0 || p.ChargeEfficiency > 1 {
		return errors.New("ChargeEfficiency must be in (0, 1]")
	}
	if p.DischargeEfficiency <= 0 || p.DischargeEfficiency > 1 {
		return errors.New("DischargeEfficiency must be in (0, 1]")
	}
	if p.MinSOC < 0 || p.MinSOC > 1 || p.MaxSOC < 0 || p.MaxSOC > 1 || p.MinSOC > p.MaxSOC {
		return errors.New("MinSOC/MaxSOC must satisfy 0<=MinSOC<=MaxSOC<=1")
	}
	if initialSOC < p.MinSOC || initialSOC > p.MaxSOC {
		return errors.New("initial SOC must be within [MinSOC, MaxSOC]")
	}
	if p.SelfDischargeRate < 0 || p.SelfDischargeRate >= 1 {
		return errors.New("SelfDischargeRate must be in [0, 1)")
	}
	return nil
}

// SOC returns the state of charge as a fraction of total capacity.
func (b *Battery) SOC() float64 {
	return b.State.StoredKWh / b.Params.CapacityKWh
}

// ApplySelfDischarge drains stored energy over the given duration, never
// below the MinSOC floor.
func (b *Battery) ApplySelfDischarge(hours float64) {
	loss := b.State.StoredKWh * b.Params.SelfDischargeRate * hours
	floor := b.Params.CapacityKWh * b.Params.MinSOC
	b.State.StoredKWh = math.Max(b.State.StoredKWh-loss, floor)
}

// Charge stores surplus power for one interval and returns the energy (kWh)
// actually drawn from the input side. Stored energy = input * ChargeEfficiency.
func (b *Battery) Charge(powerKW, durationHours float64) float64 {
	if powerKW <= 0 || durationHours <= 0 {
		return 0
	}
	b.ApplySelfDischarge(durationHours)
	powerKW = math.Min(powerKW, b.Params.MaxChargePowerKW)

	inputKWh := powerKW * durationHours
	storable := b.Params.CapacityKWh*b.Params.MaxSOC - b.State.StoredKWh
	stored := math.Min(inputKWh*b.Params.ChargeEfficiency, math.Max(storable, 0))
	b.State.StoredKWh += stored
	return stored / b.Params.ChargeEfficiency
}

// Discharge serves a power request for one interval and returns the energy
// (kWh) actually delivered to the output side. Withdrawn stored energy is
// delivered/DischargeEfficiency: losses come out of the store, they are not
// granted on top of it.
func (b *Battery) Discharge(powerKW, durationHours float64) float64 {
	if powerKW <= 0 || durationHours <= 0 {
		return 0
	}
	b.ApplySelfDischarge(durationHours)
	powerKW = math.Min(powerKW, b.Params.MaxDischargePowerKW)

	requestedKWh := powerKW * durationHours
	available := b.State.StoredKWh - b.Params.CapacityKWh*b.Params.MinSOC
	if available <= 0 {
		return 0
	}
	// Deliverable energy is capped by what the store can cover after losses.
	delivered := math.Min(requestedKWh, available*b.Params.DischargeEfficiency)
	b.State.StoredKWh -= delivered / b.Params.DischargeEfficiency
	return delivered
}
