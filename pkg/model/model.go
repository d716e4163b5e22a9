package model

// Classifier is a binary classifier exposing probabilities.
type Classifier interface {
	Fit(X [][]float64, y []float64) error
	PredictProba(X [][]float64) []float64 // returns p(y=1)
	NumFeatures() int
}
