package pipeline

import (
	"errors"

	"github.com/rs/zerolog/log"

	"returnrisk/pkg/data"
	"returnrisk/pkg/model"
	"returnrisk/pkg/schema"
	"returnrisk/pkg/stats"
)

// TrainedModel bundles a classifier with the scaler it was trained behind.
// The two must always be used together.
type TrainedModel struct {
	Classifier model.Classifier
	Scaler     *stats.StandardScaler
	Features   []string
	// HasLabels is always true: the returned flag is required by the schema.
	HasLabels bool
	Metrics   TrainingMetrics
}

// TrainingMetrics describe the fit on the training rows themselves.
type TrainingMetrics struct {
	Iterations int     `json:"iterations"`
	Loss       float64 `json:"loss"`
	Accuracy   float64 `json:"accuracy"`
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	F1         float64 `json:"f1"`
}

// FeatureColumns returns the model features present in t, in model order.
func FeatureColumns(t *data.Table) []string {
	var out []string
	for _, f := range schema.Features {
		if t.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Train standardizes the available features of a cleaned table and fits a
// logistic regression against the returned flag.
func Train(cleaned *data.Table, opts model.Options) (*TrainedModel, error) {
	features := FeatureColumns(cleaned)
	if len(features) == 0 {
		return nil, &InvalidColumnError{Column: "features", Err: errors.New("none of price, rating, category_code is present")}
	}
	X, err := featureMatrix(cleaned, features)
	if err != nil {
		return nil, err
	}
	y, err := cleaned.Floats(schema.Returned)
	if err != nil {
		return nil, &InvalidColumnError{Column: schema.Returned, Err: err}
	}
	if err := checkClasses(y); err != nil {
		return nil, err
	}

	scaler := stats.NewStandardScaler()
	Xs, err := scaler.FitTransform(features, X)
	if err != nil {
		return nil, err
	}
	clf := model.NewLogisticRegression(len(features), opts)
	if err := clf.Fit(Xs, y); err != nil {
		return nil, err
	}

	m := &TrainedModel{Classifier: clf, Scaler: scaler, Features: features, HasLabels: true}
	m.Metrics = evaluate(clf, Xs, y)
	log.Info().
		Strs("features", features).
		Int("rows", len(y)).
		Int("iterations", m.Metrics.Iterations).
		Float64("accuracy", m.Metrics.Accuracy).
		Msg("return model trained")
	return m, nil
}

func checkClasses(y []float64) error {
	if len(y) == 0 {
		return errors.New("cannot train on an empty table")
	}
	for _, v := range y[1:] {
		if v != y[0] {
			return nil
		}
	}
	return &DegenerateLabelError{Class: int(y[0]), Rows: len(y)}
}

func evaluate(clf *model.LogisticRegression, Xs [][]float64, y []float64) TrainingMetrics {
	truth := make([]int, len(y))
	for i, v := range y {
		truth[i] = int(v)
	}
	c := model.NewConfusion(truth, clf.Predict(Xs))
	return TrainingMetrics{
		Iterations: clf.Iterations,
		Loss:       clf.Loss,
		Accuracy:   c.Accuracy(),
		Precision:  c.Precision(),
		Recall:     c.Recall(),
		F1:         c.F1(),
	}
}

// featureMatrix reads the named columns as a row-major matrix.
func featureMatrix(t *data.Table, features []string) ([][]float64, error) {
	X := make([][]float64, t.Len())
	for i := range X {
		X[i] = make([]float64, len(features))
	}
	for j, f := range features {
		col, err := t.Floats(f)
		if err != nil {
			return nil, &InvalidColumnError{Column: f, Err: err}
		}
		for i, v := range col {
			X[i][j] = v
		}
	}
	return X, nil
}
