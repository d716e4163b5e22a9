package NeuralNetwork

import "math"

// Binary cross-entropy loss and its gradient with respect to the predictions'
// logits, averaged over the batch. Probabilities are clipped away from 0 and 1.
func BCE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred[i], 1e-12), 1-1e-12)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = (p - y) / float64(n)
	}
	return s / float64(n), grad
}
