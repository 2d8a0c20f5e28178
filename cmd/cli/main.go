package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"pv-pipeline/internal/analysis"
	"pv-pipeline/internal/config"
	"pv-pipeline/internal/pipeline"
	"pv-pipeline/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "load":
		cmdLoad(os.Args[2:])
	case "stats":
		cmdStats(os.Args[2:])
	case "export":
		cmdExport(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli load --config projects/demo/pv.json --out results/pv.csv")
	fmt.Println("  cli stats --config projects/demo/pv.json")
	fmt.Println("  cli export --config projects/demo/pv.json --out results/pv.xlsx")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - load writes the normalized kW/kWh series plus a .meta.txt sidecar")
	fmt.Println("  - stats prints the bundle summary without writing anything")
}

func cmdLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to JSON series config")
	outPath := fs.String("out", "", "Output CSV path (default: results/<name>.csv)")
	_ = fs.Parse(args)

	b := mustBuild(*cfgPath)

	out := *outPath
	if out == "" {
		out = filepath.Join("results", b.Name+".csv")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		fatal(err)
	}
	if err := store.WriteBundleCSV(out, b); err != nil {
		fatal(err)
	}
	if err := store.WriteSidecar(store.SidecarPath(out), b); err != nil {
		fatal(err)
	}

	fmt.Printf("wrote %s (%d rows) and %s\n", out, len(b.Series), store.SidecarPath(out))
	for _, line := range b.Log {
		fmt.Printf("  transform: %s\n", line)
	}
}

func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to JSON series config")
	_ = fs.Parse(args)

	b := mustBuild(*cfgPath)
	st := analysis.ComputeStats(b)

	fmt.Printf("%s (%s, %dmin interval)\n", st.Name, st.Role, st.IntervalMinutes)
	fmt.Printf("  rows:        %d (%d days, %s .. %s)\n", st.Rows, st.UniqueDays,
		st.Start.Format("2006-01-02"), st.End.Format("2006-01-02"))
	fmt.Printf("  annual:      %.2f kWh\n", st.AnnualKWh)
	fmt.Printf("  peak:        %.2f kW\n", st.PeakKW)
	fmt.Printf("  mean:        %.2f kW (capacity factor %.1f%%)\n", st.MeanKW, st.CapacityFactor*100)
	fmt.Printf("  min:         %.2f kW at %s\n", st.MinKW, st.MinAt.Format("2006-01-02 15:04"))
	fmt.Printf("  max:         %.2f kW at %s\n", st.MaxKW, st.MaxAt.Format("2006-01-02 15:04"))
	if !b.Report.Clean() {
		fmt.Printf("  continuity:  expected %d rows, found %d, repaired %d gaps\n",
			b.Report.ExpectedRows, b.Report.ActualRows, len(b.Report.Missing))
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to JSON series config")
	outPath := fs.String("out", "", "Output XLSX path (default: results/<name>.xlsx)")
	_ = fs.Parse(args)

	b := mustBuild(*cfgPath)

	out := *outPath
	if out == "" {
		out = filepath.Join("results", b.Name+".xlsx")
	}
	raw, err := store.BuildBundleXLSX(b)
	if err != nil {
		fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		fatal(err)
	}
	if err := os.WriteFile(out, raw, 0644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", out)
}

func mustBuild(cfgPath string) *pipeline.Bundle {
	if cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(err)
	}
	b, err := pipeline.Build(cfg)
	if err != nil {
		fatal(err)
	}
	return b
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
