package pipeline

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"returnrisk/pkg/data"
	"returnrisk/pkg/dataprep"
	"returnrisk/pkg/model"
	"returnrisk/pkg/risk"
	"returnrisk/pkg/schema"
)

// AnalysisPreviewRows is how many resolved rows an Analysis carries for display.
const AnalysisPreviewRows = 10

// Analysis is an uploaded dataset after resolution and cleaning.
type Analysis struct {
	Resolved *data.Table
	Cleaned  *data.Table
	Encoder  *dataprep.CategoryEncoder
	Stats    risk.DatasetStats
	Preview  []map[string]any
}

// Analyze resolves and cleans a raw table.
func Analyze(raw *data.Table) (*Analysis, error) {
	log.Debug().Strs("columns", raw.Columns).Int("rows", raw.Len()).Msg("analyzing dataset")
	resolved, err := schema.Resolve(raw)
	if err != nil {
		return nil, err
	}
	cleaned, enc, err := dataprep.Clean(resolved)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	return &Analysis{
		Resolved: resolved,
		Cleaned:  cleaned,
		Encoder:  enc,
		Stats:    risk.Describe(resolved),
		Preview:  risk.PreviewRows(resolved, AnalysisPreviewRows),
	}, nil
}

// Result is a freshly trained model with its predictions on the training set.
type Result struct {
	Model      *TrainedModel
	Prediction *Prediction
	Summary    risk.Summary
}

// Run trains a model on the analysis and scores every order in it.
func Run(a *Analysis, opts model.Options) (*Result, error) {
	m, err := Train(a.Cleaned, opts)
	if err != nil {
		return nil, err
	}
	pred, err := Predict(m, a.Cleaned)
	if err != nil {
		return nil, err
	}
	ids, _ := a.Resolved.Column(schema.OrderID)
	return &Result{
		Model:      m,
		Prediction: pred,
		Summary:    risk.Summarize(ids, pred.Probabilities, pred.Decisions),
	}, nil
}
