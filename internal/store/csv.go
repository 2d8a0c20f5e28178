package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"pv-pipeline/internal/model"
	"pv-pipeline/internal/pipeline"
)

// timeLayout is the on-disk timestamp format for persisted bundles.
const timeLayout = "2006-01-02 15:04:05"

// WriteBundleCSV persists a bundle's columnar data: timestamp, canonical
// kW, and the derived kWh column. The sidecar (see WriteSidecar) carries
// the metadata.
func WriteBundleCSV(path string, b *pipeline.Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	energy, err := b.EnergySeries()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "kW", "kWh"}); err != nil {
		return err
	}
	for i, p := range b.Series {
		row := []string{
			p.Timestamp.Format(timeLayout),
			fmtFloat(p.Value),
			fmtFloat(energy[i].Value),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// ReadBundleSeries loads the kW series back from a persisted bundle CSV.
// The kWh column is derived data and is ignored on read; the kW column is
// authoritative.
func ReadBundleSeries(path string) (model.TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s: missing header: %w", path, err)
	}
	if len(header) < 2 || header[0] != "timestamp" || header[1] != "kW" {
		return nil, fmt.Errorf("read %s: unexpected header %v", path, header)
	}

	var series model.TimeSeries
	row := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s:%d: %w", path, row+1, err)
		}
		row++
		ts, err := time.Parse(timeLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("read %s:%d: bad timestamp: %w", path, row, err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("read %s:%d: bad kW value: %w", path, row, err)
		}
		series = append(series, model.Point{Timestamp: ts, Value: v})
	}
	return series, nil
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
