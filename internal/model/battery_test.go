package model

import (
	"math"
	"testing"
)

func testParams() BatteryParams {
	return BatteryParams{
		CapacityKWh:         10,
		MaxChargePowerKW:    5,
		MaxDischargePowerKW: 5,
		ChargeEfficiency:    0.9,
		DischargeEfficiency: 0.9,
		MinSOC:              0.1,
		MaxSOC:              0.9,
	}
}

func TestNewBattery_Validation(t *testing.T) {
	if _, err := NewBattery(testParams(), 0.5); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*BatteryParams)
		soc    float64
	}{
		{"zero capacity", func(p *BatteryParams) { p.CapacityKWh = 0 }, 0.5},
		{"zero charge power", func(p *BatteryParams) { p.MaxChargePowerKW = 0 }, 0.5},
		{"efficiency over 1", func(p *BatteryParams) { p.ChargeEfficiency = 1.1 }, 0.5},
		{"zero discharge efficiency", func(p *BatteryParams) { p.DischargeEfficiency = 0 }, 0.5},
		{"inverted SOC bounds", func(p *BatteryParams) { p.MinSOC = 0.8; p.MaxSOC = 0.2 }, 0.5},
		{"initial below min", func(p *BatteryParams) {}, 0.05},
		{"self-discharge at 1", func(p *BatteryParams) { p.SelfDischargeRate = 1 }, 0.5},
	}
	for _, tc := range cases {
		p := testParams()
		tc.mutate(&p)
		if _, err := NewBattery(p, tc.soc); err == nil {
			t.Fatalf("%s: accepted invalid battery", tc.name)
		}
	}
}

func TestCharge_EfficiencyAndCaps(t *testing.T) {
	b, err := NewBattery(testParams(), 0.1)
	if err != nil {
		t.Fatalf("NewBattery: %v", err)
	}

	// 2 kW for 1 h: 2 kWh drawn, 1.8 kWh stored.
	drawn := b.Charge(2, 1)
	if math.Abs(drawn-2) > 1e-12 {
		t.Fatalf("drawn = %v, want 2", drawn)
	}
	if math.Abs(b.State.StoredKWh-(1+1.8)) > 1e-12 {
		t.Fatalf("stored = %v, want 2.8", b.State.StoredKWh)
	}

	// The power cap limits the draw: 50 kW request is clipped to 5 kW.
	drawn = b.Charge(50, 1)
	if math.Abs(drawn-5) > 1e-12 {
		t.Fatalf("drawn under cap = %v, want 5", drawn)
	}
}

func TestCharge_StopsAtMaxSOC(t *testing.T) {
	b, _ := NewBattery(testParams(), 0.85)
	// Headroom is 0.5 kWh of storable energy.
	drawn := b.Charge(5, 1)
	wantDrawn := 0.5 / 0.9
	if math.Abs(drawn-wantDrawn) > 1e-9 {
		t.Fatalf("drawn = %v, want %v", drawn, wantDrawn)
	}
	if math.Abs(b.SOC()-0.9) > 1e-9 {
		t.Fatalf("SOC = %v, want 0.9", b.SOC())
	}
}

func TestDischarge_LossesComeOutOfTheStore(t *testing.T) {
	b, _ := NewBattery(testParams(), 0.5)

	// 1 kW for 1 h delivered; the store gives up 1/0.9 kWh.
	delivered := b.Discharge(1, 1)
	if math.Abs(delivered-1) > 1e-12 {
		t.Fatalf("delivered = %v, want 1", delivered)
	}
	wantStored := 5 - 1/0.9
	if math.Abs(b.State.StoredKWh-wantStored) > 1e-9 {
		t.Fatalf("stored = %v, want %v", b.State.StoredKWh, wantStored)
	}
}

func TestDischarge_StopsAtMinSOC(t *testing.T) {
	b, _ := NewBattery(testParams(), 0.2)
	// Available above the floor: 1 kWh, deliverable 0.9 kWh.
	delivered := b.Discharge(5, 1)
	if math.Abs(delivered-0.9) > 1e-9 {
		t.Fatalf("delivered = %v, want 0.9", delivered)
	}
	if math.Abs(b.SOC()-0.1) > 1e-9 {
		t.Fatalf("SOC = %v, want 0.1", b.SOC())
	}

	// At the floor nothing more comes out.
	if got := b.Discharge(5, 1); got != 0 {
		t.Fatalf("discharge below MinSOC delivered %v", got)
	}
}

func TestChargeDischarge_RoundTripEfficiency(t *testing.T) {
	b, _ := NewBattery(testParams(), 0.1)

	in := b.Charge(5, 1) // 5 kWh in, 4.5 stored
	out := b.Discharge(5, 1)
	// Round trip: out = in * etaC * etaD.
	want := in * 0.9 * 0.9
	if math.Abs(out-want) > 1e-9 {
		t.Fatalf("round trip delivered %v, want %v", out, want)
	}
}

func TestApplySelfDischarge(t *testing.T) {
	p := testParams()
	p.SelfDischargeRate = 0.01
	b, _ := NewBattery(p, 0.5)

	b.ApplySelfDischarge(2)
	want := 5 - 5*0.01*2
	if math.Abs(b.State.StoredKWh-want) > 1e-12 {
		t.Fatalf("stored = %v, want %v", b.State.StoredKWh, want)
	}

	// Never drains below the MinSOC floor.
	b.State.StoredKWh = 1.001
	b.ApplySelfDischarge(1000)
	if b.State.StoredKWh < 1 {
		t.Fatalf("self-discharge went below the floor: %v", b.State.StoredKWh)
	}
}

func TestChargeDischarge_IgnoreNonPositiveInput(t *testing.T) {
	b, _ := NewBattery(testParams(), 0.5)
	if b.Charge(-1, 1) != 0 || b.Charge(1, 0) != 0 {
		t.Fatalf("charge accepted non-positive input")
	}
	if b.Discharge(-1, 1) != 0 || b.Discharge(1, 0) != 0 {
		t.Fatalf("discharge accepted non-positive input")
	}
	if b.SOC() != 0.5 {
		t.Fatalf("state changed: %v", b.SOC())
	}
}
