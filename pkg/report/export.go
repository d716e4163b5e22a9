// Package report renders scored datasets for people: the downloadable
// workbook and the probability histogram.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"returnrisk/pkg/data"
	"returnrisk/pkg/pipeline"
	"returnrisk/pkg/risk"
)

// Sheet and column names of the exported workbook.
const (
	PredictionsSheet  = "Predictions"
	SummarySheet      = "Summary"
	ProbabilityColumn = "return_probability"
	PredictionColumn  = "return_prediction"
)

// WriteWorkbook writes an xlsx with every order plus its probability and
// decision, and a summary sheet with the tier counts.
func WriteWorkbook(w io.Writer, t *data.Table, pred *pipeline.Prediction, s risk.Summary) error {
	if len(pred.Probabilities) != t.Len() {
		return fmt.Errorf("export: %d predictions for %d rows", len(pred.Probabilities), t.Len())
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PredictionsSheet); err != nil {
		return err
	}
	header := make([]any, 0, len(t.Columns)+2)
	for _, c := range t.Columns {
		header = append(header, c)
	}
	header = append(header, ProbabilityColumn, PredictionColumn)
	if err := setRow(f, PredictionsSheet, 1, header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]any, 0, len(row)+2)
		for _, v := range row {
			cells = append(cells, cellValue(v))
		}
		cells = append(cells, pred.Probabilities[i], pred.Decisions[i])
		if err := setRow(f, PredictionsSheet, i+2, cells); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Metric", "Count", "Percentage"},
		{"Total orders", s.Total, 100},
		{"High risk", s.High.Count, s.High.Percent},
		{"Medium risk", s.Medium.Count, s.Medium.Percent},
		{"Low risk", s.Low.Count, s.Low.Percent},
	}
	for i, r := range summary {
		if err := setRow(f, SummarySheet, i+1, r); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// cellValue writes numbers as numbers and missing cells as blanks.
func cellValue(v string) any {
	f, ok, err := data.ParseFloat(v)
	switch {
	case err != nil:
		return v
	case !ok:
		return nil
	default:
		return f
	}
}
