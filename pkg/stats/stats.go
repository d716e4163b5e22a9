package stats

import "gonum.org/v1/gonum/stat"

// Mean computes the average of a slice, 0 when it is empty.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Column extracts column j of a row-major matrix.
func Column(X [][]float64, j int) []float64 {
	col := make([]float64, len(X))
	for i := range X {
		col[i] = X[i][j]
	}
	return col
}
