package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Generates a sized PV series from the normalized reference profile.
//
// The reference CSV carries one year of 15-minute values for three roof
// orientations, each normalized so the profile shape is independent of
// plant size. This tool scales every orientation so its maximum equals
// the requested kWp, sums them into a combined column, and writes the
// result next to a series config ready for the pipeline.
func main() {
	var (
		inputPath = flag.String("input", "data/reference/PV_series.csv", "Normalized reference CSV (semicolon separated, comma decimals)")
		outDir    = flag.String("out", "projects/reference", "Output directory for CSV and config")
		name      = flag.String("name", "", "Configuration name (default derived from peak powers)")
		eastKWp   = flag.Float64("east", 0, "Peak power for the east orientation (kWp)")
		southKWp  = flag.Float64("south", 0, "Peak power for the south orientation (kWp)")
		westKWp   = flag.Float64("west", 0, "Peak power for the west orientation (kWp)")
	)
	flag.Parse()

	totalKWp := *eastKWp + *southKWp + *westKWp
	if totalKWp <= 0 {
		log.Fatal("at least one of --east, --south, --west must be positive")
	}
	if *eastKWp < 0 || *southKWp < 0 || *westKWp < 0 {
		log.Fatal("peak powers must be non-negative")
	}

	cfgName := *name
	if cfgName == "" {
		cfgName = fmt.Sprintf("PV Referenz %.0fkWp Ost_%.0fkWp Sued_%.0fkWp West", *eastKWp, *southKWp, *westKWp)
	}

	ref, err := readReference(*inputPath)
	if err != nil {
		log.Fatalf("read reference: %v", err)
	}
	fmt.Printf("Loaded %d intervals from %s\n", len(ref.timestamps), *inputPath)

	eastScale := scaleFactor(ref.east, *eastKWp)
	southScale := scaleFactor(ref.south, *southKWp)
	westScale := scaleFactor(ref.west, *westKWp)

	combined := make([]float64, len(ref.timestamps))
	annualKWh := 0.0
	maxKW := 0.0
	for i := range combined {
		v := ref.east[i]*eastScale + ref.south[i]*southScale + ref.west[i]*westScale
		combined[i] = v
		annualKWh += v * 0.25 // 15-minute intervals
		if v > maxKW {
			maxKW = v
		}
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatal(err)
	}
	safeName := sanitizeName(cfgName)
	csvPath := filepath.Join(*outDir, safeName+".csv")
	jsonPath := filepath.Join(*outDir, safeName+".json")

	if err := writeSeriesCSV(csvPath, ref, eastScale, southScale, westScale, combined); err != nil {
		log.Fatalf("write CSV: %v", err)
	}
	if err := writeSeriesConfig(jsonPath, cfgName, filepath.Base(csvPath)); err != nil {
		log.Fatalf("write config: %v", err)
	}

	fmt.Printf("\nPeak power configuration:\n")
	fmt.Printf("  East:  %.2f kWp\n", *eastKWp)
	fmt.Printf("  South: %.2f kWp\n", *southKWp)
	fmt.Printf("  West:  %.2f kWp\n", *westKWp)
	fmt.Printf("  Total: %.2f kWp\n", totalKWp)
	fmt.Printf("\nResults:\n")
	fmt.Printf("  Annual yield:   %.0f kWh\n", annualKWh)
	fmt.Printf("  Specific yield: %.0f kWh/kWp\n", annualKWh/totalKWp)
	fmt.Printf("  Maximum power:  %.1f kW (%.1f%% of peak)\n", maxKW, maxKW/totalKWp*100)
	fmt.Printf("\nWrote %s and %s\n", csvPath, jsonPath)
}

type reference struct {
	timestamps        []time.Time
	east, south, west []float64
}

// readReference parses the normalized profile. Columns: "Date [UTC+1]"
// (dd.mm.yyyy hh:mm), PV_east_30_norm, PV_south_30_norm, PV_west_30_norm.
func readReference(path string) (*reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := func(name string) (int, error) {
		for i, h := range header {
			if strings.TrimSpace(h) == name {
				return i, nil
			}
		}
		return 0, fmt.Errorf("column %q not found", name)
	}
	dateIdx, err := col("Date [UTC+1]")
	if err != nil {
		return nil, err
	}
	eastIdx, err := col("PV_east_30_norm")
	if err != nil {
		return nil, err
	}
	southIdx, err := col("PV_south_30_norm")
	if err != nil {
		return nil, err
	}
	westIdx, err := col("PV_west_30_norm")
	if err != nil {
		return nil, err
	}

	ref := &reference{}
	for row := 2; ; row++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		ts, err := time.Parse("02.01.2006 15:04", strings.TrimSpace(rec[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		e, err := parseGermanFloat(rec[eastIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d east: %w", row, err)
		}
		s, err := parseGermanFloat(rec[southIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d south: %w", row, err)
		}
		w, err := parseGermanFloat(rec[westIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d west: %w", row, err)
		}
		ref.timestamps = append(ref.timestamps, ts)
		ref.east = append(ref.east, e)
		ref.south = append(ref.south, s)
		ref.west = append(ref.west, w)
	}
	if len(ref.timestamps) == 0 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	return ref, nil
}

func parseGermanFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// scaleFactor sizes a normalized orientation so its peak equals peakKWp.
func scaleFactor(values []float64, peakKWp float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return 0
	}
	return peakKWp / max
}

func writeSeriesCSV(path string, ref *reference, eastScale, southScale, westScale float64, combined []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write([]string{"Datum", "Wert (kW)", "PV_Ost (kW)", "PV_Sued (kW)", "PV_West (kW)"}); err != nil {
		return err
	}
	german := func(v float64) string {
		return strings.ReplaceAll(strconv.FormatFloat(v, 'f', -1, 64), ".", ",")
	}
	for i, ts := range ref.timestamps {
		rec := []string{
			ts.Format("02.01.2006 15:04"),
			german(combined[i]),
			german(ref.east[i] * eastScale),
			german(ref.south[i] * southScale),
			german(ref.west[i] * westScale),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSeriesConfig(path, name, dataFile string) error {
	cfg := map[string]any{
		"Name":                name,
		"Datei":               dataFile,
		"Datenspalte":         "Wert (kW)",
		"Einheit":             "kW",
		"Intervall":           15,
		"Datum-Zeit-Spalte":   "Datum",
		"Datum-Zeit-Format":   "%d.%m.%Y %H:%M",
		"Dezimaltrennzeichen": ",",
		"Spaltentrennzeichen": ";",
		"Typ":                 "Erzeugung",
		"Farbe":               "#D4D100",
	}
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0644)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
