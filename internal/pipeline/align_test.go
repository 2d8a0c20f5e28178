package pipeline

import (
	"testing"
	"time"

	"pv-pipeline/internal/config"
)

func TestAlignLeft_DetectsRightAlignedHourlyDay(t *testing.T) {
	// A day of hourly readings stamped at interval ends runs 01:00..00:00;
	// after alignment it must run 00:00..23:00.
	start := time.Date(2023, 5, 1, 1, 0, 0, 0, time.UTC)
	values := make([]float64, 24)
	s := makeSeries(start, 60, values)

	out, note := AlignLeft(s, 60, config.AlignAuto)
	if note == "" {
		t.Fatalf("expected a detection note")
	}
	wantFirst := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	if !out[0].Timestamp.Equal(wantFirst) {
		t.Fatalf("first timestamp = %v, want %v", out[0].Timestamp, wantFirst)
	}
	wantLast := time.Date(2023, 5, 1, 23, 0, 0, 0, time.UTC)
	if !out[len(out)-1].Timestamp.Equal(wantLast) {
		t.Fatalf("last timestamp = %v, want %v", out[len(out)-1].Timestamp, wantLast)
	}
}

func TestAlignLeft_MidnightStartIsLeftAligned(t *testing.T) {
	start := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	s := makeSeries(start, 15, []float64{1, 2, 3})

	out, note := AlignLeft(s, 15, config.AlignAuto)
	if note != "" {
		t.Fatalf("unexpected note: %q", note)
	}
	if !out[0].Timestamp.Equal(start) {
		t.Fatalf("left-aligned series was shifted: %v", out[0].Timestamp)
	}
}

func TestAlignLeft_SinglePointIsAmbiguous(t *testing.T) {
	start := time.Date(2023, 5, 1, 0, 15, 0, 0, time.UTC)
	s := makeSeries(start, 15, []float64{1})

	out, note := AlignLeft(s, 15, config.AlignAuto)
	if note != "" {
		t.Fatalf("unexpected note for single point: %q", note)
	}
	if !out[0].Timestamp.Equal(start) {
		t.Fatalf("single point was shifted: %v", out[0].Timestamp)
	}
}

func TestAlignLeft_ExplicitModesBypassDetection(t *testing.T) {
	start := time.Date(2023, 5, 1, 1, 0, 0, 0, time.UTC)
	s := makeSeries(start, 60, []float64{1, 2})

	// "links": first timestamp looks right-aligned but the config says no.
	out, note := AlignLeft(s, 60, config.AlignLeft)
	if note != "" || !out[0].Timestamp.Equal(start) {
		t.Fatalf("links mode shifted the series (note %q)", note)
	}

	// "rechts": shift even when detection would not trigger.
	noon := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	s2 := makeSeries(noon, 60, []float64{1, 2})
	out2, note2 := AlignLeft(s2, 60, config.AlignRight)
	if note2 == "" {
		t.Fatalf("rechts mode produced no note")
	}
	if !out2[0].Timestamp.Equal(noon.Add(-time.Hour)) {
		t.Fatalf("rechts mode did not shift: %v", out2[0].Timestamp)
	}
}

func TestAlignLeft_OffGridFirstTimestampIsFlagged(t *testing.T) {
	start := time.Date(2023, 5, 1, 0, 7, 0, 0, time.UTC)
	s := makeSeries(start, 15, []float64{1, 2})

	out, note := AlignLeft(s, 15, config.AlignAuto)
	if note == "" {
		t.Fatalf("off-grid first timestamp was not flagged")
	}
	if !out[0].Timestamp.Equal(start) {
		t.Fatalf("off-grid series was shifted: %v", out[0].Timestamp)
	}
}
