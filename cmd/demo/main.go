package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pv-pipeline/internal/analysis"
	"pv-pipeline/internal/config"
	"pv-pipeline/internal/model"
	"pv-pipeline/internal/pipeline"
)

// Demo:
// - Generate a synthetic PV year (bell curve around noon) and a flat-ish
//   household load, written as German-format CSVs into a temp directory
// - Run both through the pipeline and print the bundle summaries
// - Decompose self-consumption and simulate a small home battery
func main() {
	days := flag.Int("days", 365, "Number of days to synthesize")
	interval := flag.Int("interval", 15, "Interval in minutes")
	peakKW := flag.Float64("peak", 10.0, "PV peak power (kW)")
	baseLoadKW := flag.Float64("load", 0.8, "Household base load (kW)")
	flag.Parse()

	dir, err := os.MkdirTemp("", "pv-demo")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	pvCfg, err := writeSynthetic(dir, "pv", "Erzeugung", *days, *interval, func(t time.Time) float64 {
		return pvCurve(t, *peakKW)
	})
	if err != nil {
		panic(err)
	}
	loadCfg, err := writeSynthetic(dir, "last", "Last", *days, *interval, func(t time.Time) float64 {
		return loadCurve(t, *baseLoadKW)
	})
	if err != nil {
		panic(err)
	}

	pv := mustBuild(pvCfg)
	load := mustBuild(loadCfg)

	printSummary(pv)
	printSummary(load)

	sc, err := analysis.ComputeSelfConsumption([]*pipeline.Bundle{pv, load})
	if err != nil {
		panic(err)
	}
	hours := float64(sc.IntervalMinutes) / 60.0
	fmt.Printf("\nSelf-consumption over %d intervals:\n", len(sc.SelfUse))
	fmt.Printf("  load:       %9.1f kWh\n", sc.Load.Sum()*hours)
	fmt.Printf("  generation: %9.1f kWh\n", sc.Generation.Sum()*hours)
	fmt.Printf("  self-use:   %9.1f kWh\n", sc.SelfUse.Sum()*hours)
	fmt.Printf("  feed-in:    %9.1f kWh\n", sc.FeedIn.Sum()*hours)
	fmt.Printf("  grid use:   %9.1f kWh\n", sc.GridUse.Sum()*hours)

	batt, err := model.NewBattery(model.BatteryParams{
		CapacityKWh:         10,
		MaxChargePowerKW:    5,
		MaxDischargePowerKW: 5,
		ChargeEfficiency:    0.95,
		DischargeEfficiency: 0.95,
		MinSOC:              0.05,
		MaxSOC:              0.95,
	}, 0.05)
	if err != nil {
		panic(err)
	}

	res, err := analysis.SimulateStorage(sc, batt)
	if err != nil {
		panic(err)
	}

	fmt.Printf("\nStorage simulation (10 kWh / 5 kW battery), first midday intervals:\n")
	shown := 0
	for _, r := range res.Ledger {
		if r.Timestamp.Hour() < 11 || r.Timestamp.Hour() > 13 {
			continue
		}
		fmt.Printf("%s  load=%5.2f  gen=%5.2f  charged=%5.2f  discharged=%5.2f  soc=%.3f→%.3f\n",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.LoadKW, r.GenerationKW, r.ChargedKWh, r.DischargedKWh, r.SOCStart, r.SOCEnd)
		shown++
		if shown >= 12 {
			break
		}
	}

	fmt.Printf("\nDone. charged=%.1f kWh  discharged=%.1f kWh  feed-in=%.1f kWh  grid=%.1f kWh  final SOC=%.3f\n",
		res.TotalChargedKWh, res.TotalDischargedKWh, res.TotalFeedInKWh, res.TotalGridUseKWh, res.FinalSOC)
}

// pvCurve is a clear-sky bell curve peaking at noon, zero at night.
func pvCurve(t time.Time, peakKW float64) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60.0
	if h < 6 || h > 20 {
		return 0
	}
	x := (h - 13) / 3.2
	// Mild seasonal swing on top of the daily shape.
	season := 0.7 + 0.3*math.Cos(2*math.Pi*float64(t.YearDay()-172)/365)
	return peakKW * season * math.Exp(-x*x)
}

// loadCurve is a base load with morning and evening bumps.
func loadCurve(t time.Time, baseKW float64) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60.0
	v := baseKW
	if h >= 6 && h <= 9 {
		v += 0.8 * baseKW
	}
	if h >= 17 && h <= 22 {
		v += 1.5 * baseKW
	}
	return v
}

// writeSynthetic emits one series as a semicolon-separated CSV with German
// decimals plus a matching JSON config, and returns the config path.
func writeSynthetic(dir, name, typ string, days, interval int, value func(time.Time) float64) (string, error) {
	csvPath := filepath.Join(dir, name+".csv")
	cfgPath := filepath.Join(dir, name+".json")

	var sb strings.Builder
	sb.WriteString("Datum;Wert (kW)\n")
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	step := time.Duration(interval) * time.Minute
	for t := start; t.Before(start.AddDate(0, 0, days)); t = t.Add(step) {
		v := strings.ReplaceAll(fmt.Sprintf("%.4f", value(t)), ".", ",")
		sb.WriteString(t.Format("02.01.2006 15:04"))
		sb.WriteString(";")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(csvPath, []byte(sb.String()), 0644); err != nil {
		return "", err
	}

	cfg := map[string]any{
		"Name":              name,
		"Datei":             csvPath,
		"Datenspalte":       "Wert (kW)",
		"Einheit":           "kW",
		"Intervall":         interval,
		"Datum-Zeit-Spalte": "Datum",
		"Datum-Zeit-Format": "%d.%m.%Y %H:%M",
		"Typ":               typ,
	}
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, raw, 0644); err != nil {
		return "", err
	}
	return cfgPath, nil
}

func mustBuild(cfgPath string) *pipeline.Bundle {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	b, err := pipeline.Build(cfg)
	if err != nil {
		panic(err)
	}
	return b
}

func printSummary(b *pipeline.Bundle) {
	fmt.Printf("%s: %d rows at %dmin, %.1f kWh total, peak %.2f kW\n",
		b.Name, len(b.Series), b.IntervalMinutes, b.TotalKWh(), b.Series.MaxAbs())
	for _, line := range b.Log {
		fmt.Printf("  transform: %s\n", line)
	}
}
