package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"pv-pipeline/internal/config"
	"pv-pipeline/internal/model"
)

// MaxRows caps the number of data rows a single file may contribute.
// Larger inputs are rejected to keep worst-case latency bounded.
const MaxRows = 1_000_000

// Ingest parses the configured CSV file into a raw timestamped series.
// The result is in the declared unit and alignment; downstream stages
// normalize both. Returned log lines describe transformations applied at
// ingestion (inversion, offset shift, dropped blank rows).
func Ingest(cfg *config.SeriesConfig) (model.TimeSeries, []string, error) {
	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, nil, &model.ParseError{File: cfg.File, Message: "open file", Err: err}
	}
	defer f.Close()
	return ingestReader(f, cfg)
}

func ingestReader(r io.Reader, cfg *config.SeriesConfig) (model.TimeSeries, []string, error) {
	cr := csv.NewReader(r)
	cr.Comma = cfg.Separator()
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	row := 0
	// Skip leading non-data lines; the first remaining line is the header.
	for i := 0; i < cfg.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, nil, &model.ParseError{File: cfg.File, Row: row + 1, Message: "file shorter than Startzeile", Err: err}
		}
		row++
	}
	header, err := cr.Read()
	if err != nil {
		return nil, nil, &model.ParseError{File: cfg.File, Row: row + 1, Message: "missing header row", Err: err}
	}
	row++

	cols, err := resolveColumns(header, cfg)
	if err != nil {
		return nil, nil, err
	}

	layout := cfg.TimeLayout()
	decimal := cfg.Decimal()

	var series model.TimeSeries
	dropped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &model.ParseError{File: cfg.File, Row: row + 1, Message: "malformed CSV row", Err: err}
		}
		row++
		if len(series) >= MaxRows {
			return nil, nil, &model.ParseError{
				File:    cfg.File,
				Row:     row,
				Message: fmt.Sprintf("row limit of %d exceeded", MaxRows),
			}
		}

		rawTS, rawVal, ok := extractCells(rec, cols)
		if !ok || strings.TrimSpace(rawTS) == "" || strings.TrimSpace(rawVal) == "" {
			dropped++
			continue
		}

		ts, err := time.Parse(layout, rawTS)
		if err != nil {
			return nil, nil, &model.ParseError{File: cfg.File, Row: row, Column: cols.describeTime(cfg), Message: "unparsable timestamp", Err: err}
		}
		val, err := parseDecimal(rawVal, decimal)
		if err != nil {
			return nil, nil, &model.ParseError{File: cfg.File, Row: row, Column: cfg.ValueColumn, Message: "unparsable numeric value", Err: err}
		}
		series = append(series, model.Point{Timestamp: ts, Value: val})
	}

	var log []string
	if dropped > 0 {
		log = append(log, fmt.Sprintf("dropped %d rows with empty timestamp or value cells", dropped))
	}
	if cfg.Inverted {
		for i := range series {
			series[i].Value = -series[i].Value
		}
		log = append(log, "values inverted (sign flipped)")
	}
	if cfg.Offset != 0 {
		shiftValues(series, cfg.Offset)
		log = append(log, fmt.Sprintf("values shifted by %d intervals, vacated cells zero-filled", cfg.Offset))
	}
	return series, log, nil
}

// columnIndexes locates the configured columns in the header row.
type columnIndexes struct {
	value    int
	datetime int // combined column, -1 if unused
	date     int // separate columns, -1 if unused
	tim      int
}

func (c columnIndexes) describeTime(cfg *config.SeriesConfig) string {
	if c.datetime >= 0 {
		return cfg.DateTimeColumn
	}
	return cfg.DateColumn + "+" + cfg.TimeColumn
}

func resolveColumns(header []string, cfg *config.SeriesConfig) (columnIndexes, error) {
	idx := func(name string) int {
		for i, h := range header {
			if strings.TrimSpace(h) == name {
				return i
			}
		}
		return -1
	}
	cols := columnIndexes{value: idx(cfg.ValueColumn), datetime: -1, date: -1, tim: -1}
	if cols.value < 0 {
		return cols, &model.ParseError{File: cfg.File, Column: cfg.ValueColumn, Message: "configured value column not found in header"}
	}
	if cfg.DateTimeColumn != "" {
		cols.datetime = idx(cfg.DateTimeColumn)
		if cols.datetime < 0 {
			return cols, &model.ParseError{File: cfg.File, Column: cfg.DateTimeColumn, Message: "configured datetime column not found in header"}
		}
		return cols, nil
	}
	cols.date = idx(cfg.DateColumn)
	cols.tim = idx(cfg.TimeColumn)
	if cols.date < 0 {
		return cols, &model.ParseError{File: cfg.File, Column: cfg.DateColumn, Message: "configured date column not found in header"}
	}
	if cols.tim < 0 {
		return cols, &model.ParseError{File: cfg.File, Column: cfg.TimeColumn, Message: "configured time column not found in header"}
	}
	return cols, nil
}

func extractCells(rec []string, cols columnIndexes) (rawTS, rawVal string, ok bool) {
	if cols.value >= len(rec) {
		return "", "", false
	}
	rawVal = rec[cols.value]
	if cols.datetime >= 0 {
		if cols.datetime >= len(rec) {
			return "", "", false
		}
		return rec[cols.datetime], rawVal, true
	}
	if cols.date >= len(rec) || cols.tim >= len(rec) {
		return "", "", false
	}
	// Separate date and time columns are concatenated before parsing; the
	// configured format must match "<date> <time>".
	return strings.TrimSpace(rec[cols.date]) + " " + strings.TrimSpace(rec[cols.tim]), rawVal, true
}

func parseDecimal(raw string, decimal rune) (float64, error) {
	s := strings.TrimSpace(raw)
	if decimal != '.' {
		// The configured decimal separator becomes '.'; any '.' already
		// present is a thousands separator in that locale and is removed.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, string(decimal), ".")
	}
	return strconv.ParseFloat(s, 64)
}

// shiftValues moves the value column by offset intervals, leaving the
// timestamps untouched. Vacated cells are zero-filled.
func shiftValues(s model.TimeSeries, offset int) {
	n := len(s)
	if offset == 0 || n == 0 {
		return
	}
	vals := make([]float64, n)
	for i := range s {
		src := i - offset
		if src >= 0 && src < n {
			vals[i] = s[src].Value
		}
	}
	for i := range s {
		s[i].Value = vals[i]
	}
}
