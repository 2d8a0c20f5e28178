package models

import "time"

// BundleResponse summarizes a built bundle.
type BundleResponse struct {
	ID      string        `json:"id"`
	Status  string        `json:"status"`
	Summary BundleSummary `json:"summary"`
	Rows    []SeriesRow   `json:"rows,omitempty"`
}

// BundleSummary carries the bundle metadata and audit trail.
type BundleSummary struct {
	Name            string     `json:"name"`
	Unit            string     `json:"unit"`
	DeclaredUnit    string     `json:"declared_unit"`
	IntervalMinutes int        `json:"interval_minutes"`
	Role            string     `json:"role"`
	Inverted        bool       `json:"inverted"`
	Rows            int        `json:"rows"`
	Window          TimeWindow `json:"window"`

	TotalKWh float64 `json:"total_kwh"`
	PeakKW   float64 `json:"peak_kw"`
	MeanKW   float64 `json:"mean_kw"`

	Scaling    *ScalingInfo   `json:"scaling,omitempty"`
	Continuity ContinuityInfo `json:"continuity"`
	Transforms []string       `json:"transforms,omitempty"`
}

// TimeWindow represents a time range.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScalingInfo mirrors the bundle's scaling record.
type ScalingInfo struct {
	Kind   string  `json:"kind"`
	Target float64 `json:"target"`
	Factor float64 `json:"factor"`
}

// ContinuityInfo reports gap repair.
type ContinuityInfo struct {
	ExpectedRows int         `json:"expected_rows"`
	ActualRows   int         `json:"actual_rows"`
	GapsRepaired int         `json:"gaps_repaired"`
	Interpolated int         `json:"interpolated"`
	ZeroFilled   int         `json:"zero_filled"`
	Snapped      int         `json:"snapped"`
	Missing      []time.Time `json:"missing,omitempty"`
}

// SeriesRow is one interval of bundle output.
type SeriesRow struct {
	Timestamp time.Time `json:"timestamp"`
	KW        float64   `json:"kw"`
	KWh       float64   `json:"kwh"`
}

// StatsResponse wraps per-bundle statistics.
type StatsResponse struct {
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Rows            int       `json:"rows"`
	IntervalMinutes int       `json:"interval_minutes"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	UniqueDays      int       `json:"unique_days"`
	SumKW           float64   `json:"sum_kw"`
	MeanKW          float64   `json:"mean_kw"`
	PeakKW          float64   `json:"peak_kw"`
	MinKW           float64   `json:"min_kw"`
	MinAt           time.Time `json:"min_at"`
	MaxKW           float64   `json:"max_kw"`
	MaxAt           time.Time `json:"max_at"`
	AnnualKWh       float64   `json:"annual_kwh"`
	CapacityFactor  float64   `json:"capacity_factor"`
}

// SelfConsumptionResponse reports the energy-balance decomposition.
type SelfConsumptionResponse struct {
	IntervalMinutes int     `json:"interval_minutes"`
	Rows            int     `json:"rows"`
	LoadKWh         float64 `json:"load_kwh"`
	GenerationKWh   float64 `json:"generation_kwh"`
	SelfUseKWh      float64 `json:"self_use_kwh"`
	FeedInKWh       float64 `json:"feed_in_kwh"`
	GridUseKWh      float64 `json:"grid_use_kwh"`
}

// StorageResponse summarizes a battery simulation.
type StorageResponse struct {
	Intervals          int     `json:"intervals"`
	TotalChargedKWh    float64 `json:"total_charged_kwh"`
	TotalDischargedKWh float64 `json:"total_discharged_kwh"`
	TotalFeedInKWh     float64 `json:"total_feed_in_kwh"`
	TotalGridUseKWh    float64 `json:"total_grid_use_kwh"`
	FinalSOC           float64 `json:"final_soc"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
