package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pv-pipeline/internal/model"
)

// SeriesConfig is the on-disk description of one CSV data series.
// The key names are the German ones used by existing project files; unknown
// keys are ignored. Load rejects configs with missing required fields so
// that bad input fails here and not deep inside the pipeline.
type SeriesConfig struct {
	Name            string `json:"Name"`
	File            string `json:"Datei"`
	ValueColumn     string `json:"Datenspalte"`
	Unit            string `json:"Einheit"`
	IntervalMinutes int    `json:"Intervall"`

	// Either a combined datetime column, or separate date + time columns.
	// The format applies to the combined column, or to "<date> <time>"
	// after concatenation.
	DateTimeColumn string `json:"Datum-Zeit-Spalte"`
	DateTimeFormat string `json:"Datum-Zeit-Format"`
	DateColumn     string `json:"Datumspalte"`
	TimeColumn     string `json:"Zeitspalte"`

	SkipRows         int    `json:"Startzeile"`
	DecimalSeparator string `json:"Dezimaltrennzeichen"`
	ColumnSeparator  string `json:"Spaltentrennzeichen"`

	Type     string `json:"Typ"` // Erzeugung | Last | Speicher
	Inverted bool   `json:"Invertiert"`

	// Offset shifts the value column by this many intervals at ingestion;
	// vacated cells are zero-filled, timestamps stay put.
	Offset int `json:"offset"`

	// Alignment overrides right-alignment detection: links | rechts | auto.
	Alignment string `json:"Ausrichtung"`

	RemoveLeapDay bool `json:"Schalttag-entfernen"`

	// Exactly one scaling target may be set.
	TargetTotalKWh *float64 `json:"Zielgesamtwert"`
	TargetPeakKW   *float64 `json:"Zielspitzenwert"`

	// Color is display-only; carried through for consumers, never
	// interpreted by the pipeline.
	Color string `json:"Farbe"`

	// Legacy spellings kept for old project files.
	DecimalSeparatorAlt string `json:"Dezimalpunkt"`
	ColumnSeparatorAlt  string `json:"Delimiter"`
	IsErzeugung         *bool  `json:"is_erzeugung"`
	IsLast              *bool  `json:"is_last"`
}

const (
	AlignAuto  = "auto"
	AlignLeft  = "links"
	AlignRight = "rechts"
)

// Load reads, normalizes and validates a series config.
func Load(path string) (*SeriesConfig, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadUnchecked loads and normalizes a config without validating it.
// Useful for inspecting partial configs.
func LoadUnchecked(path string) (*SeriesConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c SeriesConfig
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	c.normalize()
	// A data file path relative to the config is resolved against the
	// config's directory.
	if c.File != "" && !filepath.IsAbs(c.File) {
		cand := filepath.Join(filepath.Dir(path), c.File)
		if _, err := os.Stat(cand); err == nil {
			c.File = cand
		}
	}
	return &c, nil
}

func (c *SeriesConfig) normalize() {
	if c.DecimalSeparator == "" {
		c.DecimalSeparator = c.DecimalSeparatorAlt
	}
	if c.ColumnSeparator == "" {
		c.ColumnSeparator = c.ColumnSeparatorAlt
	}
	if c.DecimalSeparator == "" {
		c.DecimalSeparator = ","
	}
	if c.ColumnSeparator == "" {
		c.ColumnSeparator = ";"
	}
	if c.Alignment == "" {
		c.Alignment = AlignAuto
	}
	if c.Type == "" {
		if c.IsErzeugung != nil && *c.IsErzeugung {
			c.Type = "Erzeugung"
		} else if c.IsLast != nil && *c.IsLast {
			c.Type = "Last"
		}
	}
}

func (c *SeriesConfig) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Name == "" {
		return errors.New("Name is required")
	}
	if c.File == "" {
		return errors.New("Datei is required")
	}
	if c.ValueColumn == "" {
		return errors.New("Datenspalte is required")
	}
	if _, err := model.ParseUnit(c.Unit); err != nil {
		return fmt.Errorf("Einheit: %w", err)
	}
	if c.IntervalMinutes < 1 || c.IntervalMinutes > 180 {
		return fmt.Errorf("Intervall must be in [1, 180], got %d", c.IntervalMinutes)
	}
	if c.DateTimeColumn == "" && (c.DateColumn == "" || c.TimeColumn == "") {
		return errors.New("either Datum-Zeit-Spalte or Datumspalte+Zeitspalte is required")
	}
	if c.DateTimeFormat == "" {
		return errors.New("Datum-Zeit-Format is required")
	}
	if _, err := TranslateTimeLayout(c.DateTimeFormat); err != nil {
		return fmt.Errorf("Datum-Zeit-Format: %w", err)
	}
	if len([]rune(c.DecimalSeparator)) != 1 {
		return fmt.Errorf("Dezimaltrennzeichen must be a single character, got %q", c.DecimalSeparator)
	}
	if len([]rune(c.ColumnSeparator)) != 1 {
		return fmt.Errorf("Spaltentrennzeichen must be a single character, got %q", c.ColumnSeparator)
	}
	switch c.Alignment {
	case AlignAuto, AlignLeft, AlignRight:
	default:
		return fmt.Errorf("Ausrichtung must be %s, %s or %s, got %q", AlignAuto, AlignLeft, AlignRight, c.Alignment)
	}
	if c.TargetTotalKWh != nil && c.TargetPeakKW != nil {
		return errors.New("Zielgesamtwert and Zielspitzenwert are mutually exclusive")
	}
	if c.SkipRows < 0 {
		return errors.New("Startzeile must be >= 0")
	}
	return nil
}

// ParsedUnit returns the declared unit. Only valid after Validate.
func (c *SeriesConfig) ParsedUnit() model.Unit {
	u, _ := model.ParseUnit(c.Unit)
	return u
}

// Role maps the Typ field to a series role.
func (c *SeriesConfig) Role() model.Role {
	return model.ParseRole(c.Type)
}

// Decimal returns the decimal separator as a rune.
func (c *SeriesConfig) Decimal() rune {
	return []rune(c.DecimalSeparator)[0]
}

// Separator returns the CSV delimiter as a rune.
func (c *SeriesConfig) Separator() rune {
	return []rune(c.ColumnSeparator)[0]
}

// TimeLayout returns the Go time layout for the configured format.
func (c *SeriesConfig) TimeLayout() string {
	layout, _ := TranslateTimeLayout(c.DateTimeFormat)
	return layout
}
