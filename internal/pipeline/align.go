package pipeline

import (
	"fmt"
	"time"

	"pv-pipeline/internal/config"
	"pv-pipeline/internal/model"
)

// AlignLeft normalizes right-aligned (interval-end) timestamps to the
// canonical left-aligned (interval-start) convention.
//
// In auto mode the decision is made from the data: a series whose first
// timestamp sits exactly one interval past midnight was recorded at
// interval ends (a day of hourly readings starts at 01:00, not 00:00) and
// every timestamp is shifted back by one interval. A series of length 1
// carries no evidence either way and is left unchanged. The explicit
// "links"/"rechts" modes bypass detection.
//
// The returned note documents what happened and flags ambiguous inputs;
// it is empty when nothing was done.
func AlignLeft(s model.TimeSeries, intervalMinutes int, mode string) (model.TimeSeries, string) {
	if len(s) == 0 {
		return s, ""
	}
	shift := -time.Duration(intervalMinutes) * time.Minute

	switch mode {
	case config.AlignLeft:
		return s, ""
	case config.AlignRight:
		return shiftSeries(s, shift), fmt.Sprintf("right-aligned timestamps shifted by -%d minutes (configured)", intervalMinutes)
	}

	if len(s) == 1 {
		return s, ""
	}
	first := minutesSinceMidnight(s[0].Timestamp)
	if first == intervalMinutes {
		return shiftSeries(s, shift), fmt.Sprintf("right-aligned timestamps detected, shifted by -%d minutes", intervalMinutes)
	}
	if first%intervalMinutes != 0 {
		// Not on the interval grid at all; guessing here would be silent
		// data corruption, so the series is left as declared.
		return s, fmt.Sprintf("first timestamp %s is not on the %d-minute grid; alignment left unchanged",
			s[0].Timestamp.Format("15:04:05"), intervalMinutes)
	}
	return s, ""
}

func shiftSeries(s model.TimeSeries, d time.Duration) model.TimeSeries {
	out := make(model.TimeSeries, len(s))
	for i, p := range s {
		out[i] = model.Point{Timestamp: p.Timestamp.Add(d), Value: p.Value}
	}
	return out
}

func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
