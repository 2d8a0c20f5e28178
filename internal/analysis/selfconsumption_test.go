package analysis

import (
	"math"
	"testing"
	"time"

	"pv-pipeline/internal/model"
	"pv-pipeline/internal/pipeline"
)

func bundleOf(name string, role model.Role, intervalMinutes int, values []float64) *pipeline.Bundle {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	step := time.Duration(intervalMinutes) * time.Minute
	s := make(model.TimeSeries, len(values))
	for i, v := range values {
		s[i] = model.Point{Timestamp: start.Add(time.Duration(i) * step), Value: v}
	}
	return &pipeline.Bundle{
		Name:            name,
		Series:          s,
		Unit:            model.UnitKW,
		DeclaredUnit:    model.UnitKW,
		IntervalMinutes: intervalMinutes,
		Role:            role,
		Base:            s,
	}
}

func TestComputeSelfConsumption_Decomposition(t *testing.T) {
	pv := bundleOf("pv", model.RoleGeneration, 15, []float64{0, 2, 6, 4})
	load := bundleOf("last", model.RoleLoad, 15, []float64{1, 2, 3, 5})

	sc, err := ComputeSelfConsumption([]*pipeline.Bundle{pv, load})
	if err != nil {
		t.Fatalf("ComputeSelfConsumption: %v", err)
	}

	wantSelf := []float64{0, 2, 3, 4}
	wantFeed := []float64{0, 0, 3, 0}
	wantGrid := []float64{1, 0, 0, 1}
	for i := range wantSelf {
		if sc.SelfUse[i].Value != wantSelf[i] {
			t.Fatalf("SelfUse[%d] = %v, want %v", i, sc.SelfUse[i].Value, wantSelf[i])
		}
		if sc.FeedIn[i].Value != wantFeed[i] {
			t.Fatalf("FeedIn[%d] = %v, want %v", i, sc.FeedIn[i].Value, wantFeed[i])
		}
		if sc.GridUse[i].Value != wantGrid[i] {
			t.Fatalf("GridUse[%d] = %v, want %v", i, sc.GridUse[i].Value, wantGrid[i])
		}
	}

	// Balance: load = self-use + grid, generation = self-use + feed-in.
	if math.Abs(sc.Load.Sum()-(sc.SelfUse.Sum()+sc.GridUse.Sum())) > 1e-9 {
		t.Fatalf("load balance broken")
	}
	if math.Abs(sc.Generation.Sum()-(sc.SelfUse.Sum()+sc.FeedIn.Sum())) > 1e-9 {
		t.Fatalf("generation balance broken")
	}
}

func TestComputeSelfConsumption_SumsMultipleBundlesPerRole(t *testing.T) {
	east := bundleOf("pv-ost", model.RoleGeneration, 15, []float64{1, 1})
	west := bundleOf("pv-west", model.RoleGeneration, 15, []float64{2, 3})
	load := bundleOf("last", model.RoleLoad, 15, []float64{10, 10})

	sc, err := ComputeSelfConsumption([]*pipeline.Bundle{east, west, load})
	if err != nil {
		t.Fatalf("ComputeSelfConsumption: %v", err)
	}
	if sc.Generation[0].Value != 3 || sc.Generation[1].Value != 4 {
		t.Fatalf("generation sum wrong: %v", sc.Generation.Values())
	}
}

func TestComputeSelfConsumption_RequiresBothRoles(t *testing.T) {
	pv := bundleOf("pv", model.RoleGeneration, 15, []float64{1})
	if _, err := ComputeSelfConsumption([]*pipeline.Bundle{pv}); err == nil {
		t.Fatalf("accepted generation-only input")
	}
}

func TestComputeSelfConsumption_RejectsGridMismatch(t *testing.T) {
	pv := bundleOf("pv", model.RoleGeneration, 15, []float64{1, 2, 3})
	load := bundleOf("last", model.RoleLoad, 15, []float64{1, 2})
	if _, err := ComputeSelfConsumption([]*pipeline.Bundle{pv, load}); err == nil {
		t.Fatalf("accepted series of different lengths")
	}

	load60 := bundleOf("last", model.RoleLoad, 60, []float64{1, 2, 3})
	if _, err := ComputeSelfConsumption([]*pipeline.Bundle{pv, load60}); err == nil {
		t.Fatalf("accepted series with different intervals")
	}
}

func TestSumRoles_IgnoresOtherRoles(t *testing.T) {
	pv := bundleOf("pv", model.RoleGeneration, 15, []float64{5})
	load := bundleOf("last", model.RoleLoad, 15, []float64{7})

	sum, interval, err := SumRoles([]*pipeline.Bundle{pv, load}, model.RoleGeneration)
	if err != nil {
		t.Fatalf("SumRoles: %v", err)
	}
	if interval != 15 || sum[0].Value != 5 {
		t.Fatalf("got interval=%d sum=%v", interval, sum.Values())
	}
}
