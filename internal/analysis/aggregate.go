package analysis

import (
	"fmt"
	"time"

	"pv-pipeline/internal/model"
	"pv-pipeline/internal/pipeline"
)

// Period selects the aggregation bucket.
type Period string

const (
	PeriodHourly  Period = "hourly"
	PeriodWeekly  Period = "weekly" // ISO weeks, Monday start
	PeriodMonthly Period = "monthly"
)

const (
	minutesPerHour  = 60
	minutesPerWeek  = 7 * 24 * 60
	minutesPerMonth = 30 * 24 * 60 // nominal
)

// Aggregate produces a new bundle whose series holds one value per bucket.
// Power values aggregate by mean: the hourly value is the average power
// over that hour, not a sum. The result keeps the source bundle's
// metadata and extends its transformation log.
func Aggregate(b *pipeline.Bundle, period Period) (*pipeline.Bundle, error) {
	var bucket func(time.Time) time.Time
	var interval int
	switch period {
	case PeriodHourly:
		bucket = func(t time.Time) time.Time { return t.Truncate(time.Hour) }
		interval = minutesPerHour
	case PeriodWeekly:
		bucket = weekStart
		interval = minutesPerWeek
	case PeriodMonthly:
		bucket = func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		}
		interval = minutesPerMonth
	default:
		return nil, fmt.Errorf("unknown aggregation period %q", period)
	}

	type acc struct {
		sum   float64
		count int
	}
	sums := map[time.Time]*acc{}
	var order []time.Time
	for _, p := range b.Series {
		key := bucket(p.Timestamp)
		a, ok := sums[key]
		if !ok {
			a = &acc{}
			sums[key] = a
			order = append(order, key)
		}
		a.sum += p.Value
		a.count++
	}

	series := make(model.TimeSeries, 0, len(order))
	for _, key := range order {
		a := sums[key]
		series = append(series, model.Point{Timestamp: key, Value: a.sum / float64(a.count)})
	}

	out := *b
	out.Series = series
	out.Base = series
	out.IntervalMinutes = interval
	out.Report = model.ContinuityReport{ExpectedRows: len(series), ActualRows: len(series)}
	out.Log = append(append([]string(nil), b.Log...),
		fmt.Sprintf("aggregated %s by mean (%d buckets)", period, len(series)))
	return &out, nil
}

// weekStart returns the Monday 00:00 of the ISO week containing t.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(day.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
