package pipeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pv-pipeline/internal/model"
)

// Normalize places the series onto a strict fixed-interval grid spanning
// min(timestamp) to max(timestamp) with exactly one value per slot.
//
// Repair policy for missing interior slots: power data is filled by linear
// interpolation between the nearest real neighbors; energy data is filled
// with zero, since inventing energy between meter readings would break
// conservation. The grid spans the observed range, so leading/trailing
// gaps cannot arise here; short files simply produce short grids.
//
// Source timestamps off the grid (DST artifacts) are snapped to the
// nearest free slot. Duplicate timestamps are fatal. Running Normalize on
// an already-normalized series is a no-op with a clean report.
func Normalize(s model.TimeSeries, intervalMinutes int, unit model.Unit) (model.TimeSeries, model.ContinuityReport, error) {
	report := model.ContinuityReport{ActualRows: len(s)}
	if len(s) == 0 {
		return s, report, nil
	}
	if intervalMinutes <= 0 {
		return nil, report, &model.ConversionError{IntervalMinutes: intervalMinutes, Message: "interval must be positive"}
	}

	src := s.Clone()
	sort.SliceStable(src, func(i, j int) bool { return src[i].Timestamp.Before(src[j].Timestamp) })
	for i := 1; i < len(src); i++ {
		if src[i].Timestamp.Equal(src[i-1].Timestamp) {
			count := 2
			for i+1 < len(src) && src[i+1].Timestamp.Equal(src[i].Timestamp) {
				count++
				i++
			}
			return nil, report, &model.DuplicateTimestampError{Timestamp: src[i].Timestamp, Count: count}
		}
	}

	// Division last: 60/Δt alone truncates to 0 for intervals over an hour.
	report.ExpectedRows = src.UniqueDays() * 24 * 60 / intervalMinutes

	step := time.Duration(intervalMinutes) * time.Minute
	start := src[0].Timestamp
	end := src[len(src)-1].Timestamp
	slots := int(end.Sub(start)/step) + 1
	// A few stray rows years apart would otherwise allocate an enormous
	// grid; the synthesized output obeys the same cap as ingestion.
	if slots > MaxRows {
		return nil, report, &model.ConversionError{
			IntervalMinutes: intervalMinutes,
			Message:         fmt.Sprintf("time span needs %d grid slots, exceeding the row limit of %d", slots, MaxRows),
		}
	}

	occupied := make([]bool, slots)
	values := make([]float64, slots)
	for _, p := range src {
		idx, exact := slotIndex(p.Timestamp, start, step, slots)
		if idx < 0 {
			continue
		}
		if !exact {
			report.Snapped++
		}
		if occupied[idx] {
			return nil, report, &model.DuplicateTimestampError{Timestamp: start.Add(time.Duration(idx) * step), Count: 2}
		}
		occupied[idx] = true
		values[idx] = p.Value
	}

	out := make(model.TimeSeries, slots)
	for i := 0; i < slots; i++ {
		ts := start.Add(time.Duration(i) * step)
		if occupied[i] {
			out[i] = model.Point{Timestamp: ts, Value: values[i]}
			continue
		}
		report.Missing = append(report.Missing, ts)
		var v float64
		if unit == model.UnitKWh {
			v = 0
			report.ZeroFilled++
		} else {
			v = interpolate(occupied, values, i)
			report.Interpolated++
		}
		out[i] = model.Point{Timestamp: ts, Value: v}
	}
	return out, report, nil
}

// slotIndex maps a timestamp to its grid slot. exact is false when the
// timestamp had to be rounded onto the grid.
func slotIndex(ts, start time.Time, step time.Duration, slots int) (int, bool) {
	off := ts.Sub(start)
	idx := int(math.Round(float64(off) / float64(step)))
	if idx < 0 || idx >= slots {
		return -1, false
	}
	exact := start.Add(time.Duration(idx) * step).Equal(ts)
	return idx, exact
}

// interpolate fills slot i linearly between its nearest occupied
// neighbors. With a neighbor on only one side the value is carried over
// flat; the grid construction guarantees at least one occupied slot.
func interpolate(occupied []bool, values []float64, i int) float64 {
	prev, next := -1, -1
	for j := i - 1; j >= 0; j-- {
		if occupied[j] {
			prev = j
			break
		}
	}
	for j := i + 1; j < len(occupied); j++ {
		if occupied[j] {
			next = j
			break
		}
	}
	switch {
	case prev >= 0 && next >= 0:
		frac := float64(i-prev) / float64(next-prev)
		return values[prev] + (values[next]-values[prev])*frac
	case prev >= 0:
		return values[prev]
	case next >= 0:
		return values[next]
	default:
		return 0
	}
}
