package models

// BuildBundleRequest asks the server to run the pipeline for one series
// config on disk.
type BuildBundleRequest struct {
	ConfigPath string        `json:"config_path" binding:"required"`
	Options    BundleOptions `json:"options,omitempty"`
}

// BundleOptions controls the response shape.
type BundleOptions struct {
	IncludeRows bool `json:"include_rows,omitempty"`
	LimitRows   int  `json:"limit_rows,omitempty"` // 0 = all
}

// SelfConsumptionRequest names the series configs (at least one load and
// one generation) to decompose.
type SelfConsumptionRequest struct {
	ConfigPaths []string `json:"config_paths" binding:"required"`
}

// StorageRequest runs a battery simulation on top of a self-consumption
// decomposition.
type StorageRequest struct {
	ConfigPaths []string      `json:"config_paths" binding:"required"`
	Battery     BatteryConfig `json:"battery" binding:"required"`
}

// BatteryConfig defines home-storage parameters.
type BatteryConfig struct {
	CapacityKWh         float64 `json:"capacity_kwh"`
	MaxChargePowerKW    float64 `json:"max_charge_power_kw"`
	MaxDischargePowerKW float64 `json:"max_discharge_power_kw"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	MinSOC              float64 `json:"min_soc"`
	MaxSOC              float64 `json:"max_soc"`
	InitialSOC          float64 `json:"initial_soc,omitempty"`
	SelfDischargeRate   float64 `json:"self_discharge_rate,omitempty"`
}
