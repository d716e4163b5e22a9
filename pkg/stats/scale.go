package stats

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes each feature to zero mean and unit variance.
// Features records the column names it was fitted on, in order, so callers
// can check that inference inputs line up with training.
type StandardScaler struct {
	Features []string
	Mean     []float64
	Std      []float64
	fit      bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit computes per-column mean and population std. Zero std is stored as 1
// so constant features map to 0 instead of NaN.
func (s *StandardScaler) Fit(features []string, X [][]float64) error {
	if len(X) == 0 {
		return errors.New("scaler: no rows to fit")
	}
	c := len(X[0])
	if len(features) != c {
		return fmt.Errorf("scaler: %d feature names for %d columns", len(features), c)
	}
	s.Features = slices.Clone(features)
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	for j := 0; j < c; j++ {
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(Column(X, j), nil)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.fit = true
	return nil
}

// Fitted reports whether Fit has run.
func (s *StandardScaler) Fitted() bool { return s.fit }

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, errors.New("scaler: not fitted")
	}
	Y := make([][]float64, len(X))
	for i, x := range X {
		if len(x) != len(s.Mean) {
			return nil, fmt.Errorf("scaler: row %d has %d features, fitted on %d", i+1, len(x), len(s.Mean))
		}
		row := make([]float64, len(x))
		for j, v := range x {
			row[j] = (v - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y, nil
}

func (s *StandardScaler) FitTransform(features []string, X [][]float64) ([][]float64, error) {
	if err := s.Fit(features, X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
