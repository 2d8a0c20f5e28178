package model

import (
	"math"
	"time"
)

// Point is one observation. The timestamp marks the START of the interval
// the value covers (left-aligned convention).
type Point struct {
	Timestamp time.Time
	Value     float64
}

// TimeSeries is an ordered sequence of points with strictly increasing,
// unique timestamps and a fixed nominal interval between neighbors.
type TimeSeries []Point

// Clone returns an independent copy of the series.
func (s TimeSeries) Clone() TimeSeries {
	out := make(TimeSeries, len(s))
	copy(out, s)
	return out
}

// Values returns the value column as a fresh slice.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

func (s TimeSeries) First() Point {
	if len(s) == 0 {
		return Point{}
	}
	return s[0]
}

func (s TimeSeries) Last() Point {
	if len(s) == 0 {
		return Point{}
	}
	return s[len(s)-1]
}

// Sum adds up all values. NaN inputs propagate.
func (s TimeSeries) Sum() float64 {
	total := 0.0
	for _, p := range s {
		total += p.Value
	}
	return total
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func (s TimeSeries) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	return s.Sum() / float64(len(s))
}

// Min returns the point holding the smallest value.
func (s TimeSeries) Min() Point {
	if len(s) == 0 {
		return Point{}
	}
	min := s[0]
	for _, p := range s[1:] {
		if p.Value < min.Value {
			min = p
		}
	}
	return min
}

// Max returns the point holding the largest value.
func (s TimeSeries) Max() Point {
	if len(s) == 0 {
		return Point{}
	}
	max := s[0]
	for _, p := range s[1:] {
		if p.Value > max.Value {
			max = p
		}
	}
	return max
}

// MaxAbs returns the largest absolute value in the series.
func (s TimeSeries) MaxAbs() float64 {
	peak := 0.0
	for _, p := range s {
		if a := math.Abs(p.Value); a > peak {
			peak = a
		}
	}
	return peak
}

// Scale returns a new series with every value multiplied by factor.
func (s TimeSeries) Scale(factor float64) TimeSeries {
	out := make(TimeSeries, len(s))
	for i, p := range s {
		out[i] = Point{Timestamp: p.Timestamp, Value: p.Value * factor}
	}
	return out
}

// UniqueDays counts distinct calendar dates covered by the series.
func (s TimeSeries) UniqueDays() int {
	seen := map[string]struct{}{}
	for _, p := range s {
		seen[p.Timestamp.Format("2006-01-02")] = struct{}{}
	}
	return len(seen)
}
