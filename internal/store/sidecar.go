package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"pv-pipeline/internal/pipeline"
)

// WriteSidecar writes the human-readable metadata record next to a bundle
// CSV: plain "key: value" text so an operator can audit which
// transformations ran without any tooling.
func WriteSidecar(path string, b *pipeline.Bundle) error {
	var sb strings.Builder
	put := func(k string, v any) {
		fmt.Fprintf(&sb, "%s: %v\n", k, v)
	}

	put("name", b.Name)
	put("unit", b.Unit)
	put("declared-unit", b.DeclaredUnit)
	put("interval-minutes", b.IntervalMinutes)
	put("role", b.Role)
	put("inverted", b.Inverted)
	put("rows", len(b.Series))
	if len(b.Series) > 0 {
		put("start", b.Series.First().Timestamp.Format(time.RFC3339))
		put("end", b.Series.Last().Timestamp.Format(time.RFC3339))
	}
	put("source-file", b.Source.File)

	if b.Scaling != nil {
		put("scaling-kind", b.Scaling.Kind)
		put("scaling-target", b.Scaling.Target)
		put("scaling-factor", b.Scaling.Factor)
	} else {
		put("scaling-kind", "none")
	}

	put("continuity-expected-rows", b.Report.ExpectedRows)
	put("continuity-actual-rows", b.Report.ActualRows)
	put("continuity-gaps-repaired", len(b.Report.Missing))
	put("continuity-interpolated", b.Report.Interpolated)
	put("continuity-zero-filled", b.Report.ZeroFilled)
	put("continuity-snapped", b.Report.Snapped)
	for _, ts := range b.Report.Missing {
		put("continuity-missing", ts.Format(time.RFC3339))
	}

	for _, line := range b.Log {
		put("transform", line)
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// SidecarPath derives the sidecar filename for a bundle CSV path.
func SidecarPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, ".csv") + ".meta.txt"
}
