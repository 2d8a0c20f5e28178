package analysis

import (
	"testing"
	"time"

	"pv-pipeline/internal/model"
)

func TestAggregate_HourlyMean(t *testing.T) {
	// One hour of 15-minute power values averages to one hourly value.
	b := bundleOf("pv", model.RoleGeneration, 15, []float64{1, 2, 3, 4, 10, 10, 10, 10})

	agg, err := Aggregate(b, PeriodHourly)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(agg.Series) != 2 {
		t.Fatalf("got %d buckets, want 2", len(agg.Series))
	}
	if agg.Series[0].Value != 2.5 || agg.Series[1].Value != 10 {
		t.Fatalf("hourly means wrong: %v", agg.Series.Values())
	}
	if agg.IntervalMinutes != 60 {
		t.Fatalf("interval = %d, want 60", agg.IntervalMinutes)
	}
	// Mean aggregation preserves total energy.
	if got, want := agg.TotalKWh(), b.TotalKWh(); got != want {
		t.Fatalf("energy changed under aggregation: %v vs %v", got, want)
	}
}

func TestAggregate_SourceBundleUntouched(t *testing.T) {
	b := bundleOf("pv", model.RoleGeneration, 15, []float64{1, 2, 3, 4})
	logLen := len(b.Log)

	agg, err := Aggregate(b, PeriodHourly)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(b.Series) != 4 || b.IntervalMinutes != 15 || len(b.Log) != logLen {
		t.Fatalf("source bundle mutated")
	}
	if len(agg.Log) != logLen+1 {
		t.Fatalf("aggregation not logged: %v", agg.Log)
	}
}

func TestAggregate_WeeklyBucketsStartMonday(t *testing.T) {
	// 2023-06-01 is a Thursday; its ISO week starts Monday 2023-05-29.
	b := bundleOf("pv", model.RoleGeneration, 60, make([]float64, 24*10))

	agg, err := Aggregate(b, PeriodWeekly)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	first := agg.Series[0].Timestamp
	if first.Weekday() != time.Monday {
		t.Fatalf("first bucket starts on %v, want Monday", first.Weekday())
	}
	want := time.Date(2023, 5, 29, 0, 0, 0, 0, time.UTC)
	if !first.Equal(want) {
		t.Fatalf("first bucket = %v, want %v", first, want)
	}
	// 10 days spanning two ISO weeks.
	if len(agg.Series) != 2 {
		t.Fatalf("got %d buckets, want 2", len(agg.Series))
	}
}

func TestAggregate_MonthlyBuckets(t *testing.T) {
	start := time.Date(2023, 6, 29, 0, 0, 0, 0, time.UTC)
	s := make(model.TimeSeries, 24*4)
	for i := range s {
		s[i] = model.Point{Timestamp: start.Add(time.Duration(i) * time.Hour), Value: 1}
	}
	b := bundleOf("pv", model.RoleGeneration, 60, nil)
	b.Series = s
	b.Base = s

	agg, err := Aggregate(b, PeriodMonthly)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(agg.Series) != 2 {
		t.Fatalf("got %d buckets, want 2 (June, July)", len(agg.Series))
	}
	if agg.Series[0].Timestamp.Day() != 1 || agg.Series[1].Timestamp.Day() != 1 {
		t.Fatalf("buckets not anchored to the 1st: %v, %v",
			agg.Series[0].Timestamp, agg.Series[1].Timestamp)
	}
}

func TestAggregate_UnknownPeriod(t *testing.T) {
	b := bundleOf("pv", model.RoleGeneration, 15, []float64{1})
	if _, err := Aggregate(b, Period("daily")); err == nil {
		t.Fatalf("accepted unknown period")
	}
}
