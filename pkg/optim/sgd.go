package optim

import "gonum.org/v1/gonum/floats"

// SGD is gradient descent with a fixed learning rate. The classifier feeds
// it full-batch gradients, so in practice it runs plain batch descent.
type SGD struct{ LearningRate float64 }

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

// Step moves params against grads in place. Both must have the same length.
func (o *SGD) Step(params, grads []float64) {
	floats.AddScaled(params, -o.LearningRate, grads)
}
