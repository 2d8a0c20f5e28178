package store

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"pv-pipeline/internal/pipeline"
)

// BuildBundleXLSX renders a bundle as a workbook with a summary sheet and
// the full series, for operators who audit in spreadsheets.
func BuildBundleXLSX(b *pipeline.Bundle) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	seriesSheet := "series"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(seriesSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "PV Series Bundle")
	_ = f.SetCellValue(summarySheet, "A3", "Name")
	_ = f.SetCellValue(summarySheet, "B3", b.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Unit")
	_ = f.SetCellValue(summarySheet, "B4", string(b.Unit))
	_ = f.SetCellValue(summarySheet, "A5", "Interval (min)")
	_ = f.SetCellValue(summarySheet, "B5", b.IntervalMinutes)
	_ = f.SetCellValue(summarySheet, "A6", "Role")
	_ = f.SetCellValue(summarySheet, "B6", string(b.Role))
	_ = f.SetCellValue(summarySheet, "A7", "Rows")
	_ = f.SetCellValue(summarySheet, "B7", len(b.Series))
	_ = f.SetCellValue(summarySheet, "A8", "Total Energy (kWh)")
	_ = f.SetCellValue(summarySheet, "B8", b.TotalKWh())
	_ = f.SetCellValue(summarySheet, "A9", "Peak (kW)")
	_ = f.SetCellValue(summarySheet, "B9", b.Series.MaxAbs())
	if b.Scaling != nil {
		_ = f.SetCellValue(summarySheet, "A10", "Scaling")
		_ = f.SetCellValue(summarySheet, "B10", fmt.Sprintf("%s target %g, factor %g", b.Scaling.Kind, b.Scaling.Target, b.Scaling.Factor))
	}
	for i, line := range b.Log {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", 12+i), "Transform")
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", 12+i), line)
	}

	energy, err := b.EnergySeries()
	if err != nil {
		return nil, err
	}
	_ = f.SetCellValue(seriesSheet, "A1", "Timestamp")
	_ = f.SetCellValue(seriesSheet, "B1", "kW")
	_ = f.SetCellValue(seriesSheet, "C1", "kWh")
	for i, p := range b.Series {
		row := i + 2
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("A%d", row), p.Timestamp.Format(timeLayout))
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("B%d", row), p.Value)
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("C%d", row), energy[i].Value)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
