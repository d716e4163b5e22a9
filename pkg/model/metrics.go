package model

// DecisionThreshold splits probabilities into decisions: p > threshold is 1.
const DecisionThreshold = 0.5

// BinaryPredFromProba turns probabilities into 0/1 decisions. A probability
// equal to the threshold is a 0.
func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > threshold {
			out[i] = 1
		}
	}
	return out
}

// Confusion counts binary outcomes, label 1 being "returned".
type Confusion struct {
	TP, FP, TN, FN int
}

// NewConfusion tallies yPred against yTrue. Both hold 0/1 labels.
func NewConfusion(yTrue, yPred []int) Confusion {
	var c Confusion
	for i, t := range yTrue {
		switch p := yPred[i]; {
		case p == 1 && t == 1:
			c.TP++
		case p == 1:
			c.FP++
		case t == 1:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

func (c Confusion) Total() int { return c.TP + c.FP + c.TN + c.FN }

func (c Confusion) Accuracy() float64 { return ratio(c.TP+c.TN, c.Total()) }

func (c Confusion) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }

func (c Confusion) Recall() float64 { return ratio(c.TP, c.TP+c.FN) }

// F1 is the harmonic mean of precision and recall, 0 when both are 0.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
