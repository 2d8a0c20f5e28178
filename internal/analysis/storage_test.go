package analysis

import (
	"math"
	"testing"

	"pv-pipeline/internal/model"
	"pv-pipeline/internal/pipeline"
)

func testBattery(t *testing.T, initialSOC float64) *model.Battery {
	t.Helper()
	b, err := model.NewBattery(model.BatteryParams{
		CapacityKWh:         10,
		MaxChargePowerKW:    5,
		MaxDischargePowerKW: 5,
		ChargeEfficiency:    1,
		DischargeEfficiency: 1,
		MinSOC:              0,
		MaxSOC:              1,
	}, initialSOC)
	if err != nil {
		t.Fatalf("NewBattery: %v", err)
	}
	return b
}

func TestSimulateStorage_SurplusChargesBeforeExport(t *testing.T) {
	// Hourly intervals, lossless battery: 3 kW surplus for 2 hours.
	pv := bundleOf("pv", model.RoleGeneration, 60, []float64{4, 4})
	load := bundleOf("last", model.RoleLoad, 60, []float64{1, 1})
	sc, err := ComputeSelfConsumption([]*pipeline.Bundle{pv, load})
	if err != nil {
		t.Fatalf("ComputeSelfConsumption: %v", err)
	}

	res, err := SimulateStorage(sc, testBattery(t, 0))
	if err != nil {
		t.Fatalf("SimulateStorage: %v", err)
	}
	if math.Abs(res.TotalChargedKWh-6) > 1e-9 {
		t.Fatalf("charged = %v, want 6", res.TotalChargedKWh)
	}
	if res.TotalFeedInKWh != 0 {
		t.Fatalf("feed-in = %v, want 0 while the battery has headroom", res.TotalFeedInKWh)
	}
	if math.Abs(res.FinalSOC-0.6) > 1e-9 {
		t.Fatalf("final SOC = %v, want 0.6", res.FinalSOC)
	}
}

func TestSimulateStorage_DeficitDischargesBeforeGrid(t *testing.T) {
	pv := bundleOf("pv", model.RoleGeneration, 60, []float64{0, 0})
	load := bundleOf("last", model.RoleLoad, 60, []float64{2, 2})
	sc, err := ComputeSelfConsumption([]*pipeline.Bundle{pv, load})
	if err != nil {
		t.Fatalf("ComputeSelfConsumption: %v", err)
	}

	res, err := SimulateStorage(sc, testBattery(t, 0.3))
	if err != nil {
		t.Fatalf("SimulateStorage: %v", err)
	}
	// 3 kWh on board covers the first 2 kWh hour and 1 kWh of the second.
	if math.Abs(res.TotalDischargedKWh-3) > 1e-9 {
		t.Fatalf("discharged = %v, want 3", res.TotalDischargedKWh)
	}
	if math.Abs(res.TotalGridUseKWh-1) > 1e-9 {
		t.Fatalf("grid use = %v, want 1", res.TotalGridUseKWh)
	}
	if res.FinalSOC != 0 {
		t.Fatalf("final SOC = %v, want 0", res.FinalSOC)
	}
}

func TestSimulateStorage_OverflowStillFeedsIn(t *testing.T) {
	// 20 kW surplus against a 5 kW charge cap: the rest must export.
	pv := bundleOf("pv", model.RoleGeneration, 60, []float64{21})
	load := bundleOf("last", model.RoleLoad, 60, []float64{1})
	sc, err := ComputeSelfConsumption([]*pipeline.Bundle{pv, load})
	if err != nil {
		t.Fatalf("ComputeSelfConsumption: %v", err)
	}

	res, err := SimulateStorage(sc, testBattery(t, 0))
	if err != nil {
		t.Fatalf("SimulateStorage: %v", err)
	}
	if math.Abs(res.TotalChargedKWh-5) > 1e-9 {
		t.Fatalf("charged = %v, want 5 (power cap)", res.TotalChargedKWh)
	}
	if math.Abs(res.TotalFeedInKWh-15) > 1e-9 {
		t.Fatalf("feed-in = %v, want 15", res.TotalFeedInKWh)
	}
}

func TestSimulateStorage_LedgerTracksSOC(t *testing.T) {
	pv := bundleOf("pv", model.RoleGeneration, 60, []float64{6, 0})
	load := bundleOf("last", model.RoleLoad, 60, []float64{1, 3})
	sc, err := ComputeSelfConsumption([]*pipeline.Bundle{pv, load})
	if err != nil {
		t.Fatalf("ComputeSelfConsumption: %v", err)
	}

	res, err := SimulateStorage(sc, testBattery(t, 0))
	if err != nil {
		t.Fatalf("SimulateStorage: %v", err)
	}
	if len(res.Ledger) != 2 {
		t.Fatalf("ledger length %d, want 2", len(res.Ledger))
	}
	first, second := res.Ledger[0], res.Ledger[1]
	if first.SOCStart != 0 || math.Abs(first.SOCEnd-0.5) > 1e-9 {
		t.Fatalf("first interval SOC %v -> %v", first.SOCStart, first.SOCEnd)
	}
	if math.Abs(second.SOCStart-first.SOCEnd) > 1e-12 {
		t.Fatalf("SOC not continuous across intervals")
	}
	if math.Abs(second.SOCEnd-0.2) > 1e-9 {
		t.Fatalf("second interval SOC end = %v, want 0.2", second.SOCEnd)
	}
}

func TestSimulateStorage_NilInputs(t *testing.T) {
	if _, err := SimulateStorage(nil, testBattery(t, 0)); err == nil {
		t.Fatalf("accepted nil self-consumption")
	}
	pv := bundleOf("pv", model.RoleGeneration, 60, []float64{1})
	load := bundleOf("last", model.RoleLoad, 60, []float64{1})
	sc, _ := ComputeSelfConsumption([]*pipeline.Bundle{pv, load})
	if _, err := SimulateStorage(sc, nil); err == nil {
		t.Fatalf("accepted nil battery")
	}
}
