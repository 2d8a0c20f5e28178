package pipeline

import (
	"time"

	"pv-pipeline/internal/model"
)

// RemoveLeapDays drops every entry dated February 29 and reports how many
// rows were removed. The operation is lossy and therefore only runs when a
// caller asks for it (cross-year comparisons); it is never applied
// implicitly.
func RemoveLeapDays(s model.TimeSeries) (model.TimeSeries, int) {
	out := make(model.TimeSeries, 0, len(s))
	removed := 0
	for _, p := range s {
		if p.Timestamp.Month() == time.February && p.Timestamp.Day() == 29 {
			removed++
			continue
		}
		out = append(out, p)
	}
	return out, removed
}
