package pipeline

import (
	"fmt"

	"pv-pipeline/internal/config"
	"pv-pipeline/internal/model"
)

// Build runs the full pipeline for one series config:
//
//	ingest -> align -> normalize -> convert -> leap-day (if configured) -> scale (if configured)
//
// The leap-day cleaner runs after the normalizer: removing Feb 29 first
// would leave a hole the grid reconstruction fills right back in.
// Every stage is a pure transformation; a failure in any stage aborts the
// run and no partial bundle is returned. Build is stateless, so
// independent configs may be built concurrently.
func Build(cfg *config.SeriesConfig) (*Bundle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	series, log, err := Ingest(cfg)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, &model.ParseError{File: cfg.File, Message: "file contains no data rows"}
	}

	series, note := AlignLeft(series, cfg.IntervalMinutes, cfg.Alignment)
	if note != "" {
		log = append(log, note)
	}

	declared := cfg.ParsedUnit()
	series, report, err := Normalize(series, cfg.IntervalMinutes, declared)
	if err != nil {
		return nil, err
	}
	if !report.Clean() {
		log = append(log, fmt.Sprintf(
			"continuity: expected %d rows, found %d; synthesized %d (%d interpolated, %d zero-filled), snapped %d",
			report.ExpectedRows, report.ActualRows, len(report.Missing), report.Interpolated, report.ZeroFilled, report.Snapped))
	}

	series, err = ToCanonicalPower(series, declared, cfg.IntervalMinutes)
	if err != nil {
		return nil, err
	}
	if declared == model.UnitKWh {
		log = append(log, "legacy kWh input converted to canonical kW")
	}

	if cfg.RemoveLeapDay {
		var removed int
		series, removed = RemoveLeapDays(series)
		if removed > 0 {
			log = append(log, fmt.Sprintf("removed %d leap-day (Feb 29) rows", removed))
		}
	}

	b := &Bundle{
		Name:            cfg.Name,
		Series:          series,
		Unit:            model.UnitKW,
		DeclaredUnit:    declared,
		IntervalMinutes: cfg.IntervalMinutes,
		Role:            cfg.Role(),
		Inverted:        cfg.Inverted,
		Color:           cfg.Color,
		Base:            series,
		Source:          *cfg,
		Report:          report,
		Log:             log,
	}

	// A scaling failure is fatal to the scaling step only: the unscaled
	// bundle is still valid and is returned alongside the error.
	switch {
	case cfg.TargetPeakKW != nil:
		scaled, err := b.ScaleToPeak(*cfg.TargetPeakKW)
		if err != nil {
			return b, err
		}
		return scaled, nil
	case cfg.TargetTotalKWh != nil:
		scaled, err := b.ScaleToTotal(*cfg.TargetTotalKWh)
		if err != nil {
			return b, err
		}
		return scaled, nil
	}
	return b, nil
}
