package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"returnrisk/pkg/NeuralNetwork"
	"returnrisk/pkg/optim"
)

// Options are the training hyperparameters of LogisticRegression.
type Options struct {
	C            float64 // inverse L2 strength; <= 0 disables regularization
	LearningRate float64
	MaxIter      int
	Tol          float64 // stop once every gradient component is below Tol
	Seed         int64
}

// DefaultOptions mirror the settings the return model has always used.
func DefaultOptions() Options {
	return Options{C: 1.0, LearningRate: 0.5, MaxIter: 1000, Tol: 1e-6, Seed: 42}
}

// LogisticRegression (binary) with sigmoid.
// This struct holds the model parameters and hyperparameters for training.
type LogisticRegression struct {
	W    []float64 // weights
	B    float64   // bias
	Opts Options

	// Set by Fit.
	Iterations int
	Loss       float64
}

// NewLogisticRegression initializes a new Logistic Regression model.
// Weights start as small values drawn from a generator seeded with
// opts.Seed, so two models built with the same options fit identically.
func NewLogisticRegression(nFeatures int, opts Options) *LogisticRegression {
	rng := rand.New(rand.NewSource(opts.Seed))
	w := make([]float64, nFeatures)
	for i := range w {
		w[i] = rng.NormFloat64() * 0.01
	}
	return &LogisticRegression{W: w, Opts: opts}
}

func (m *LogisticRegression) NumFeatures() int { return len(m.W) }

// PredictProba returns the probability scores (between 0 and 1) for each input row in X.
// Rows are split across goroutines; each row is scored independently so the
// result does not depend on scheduling.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = NeuralNetwork.Sigmoid(floats.Dot(m.W, X[i]) + m.B)
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// Predict returns the class labels (0 or 1); probabilities above 0.5 are 1.
func (m *LogisticRegression) Predict(X [][]float64) []int {
	return BinaryPredFromProba(m.PredictProba(X), DecisionThreshold)
}

// Fit minimizes mean binary cross-entropy plus ||W||^2 / (2*C*n) with
// full-batch gradient descent. It stops when the largest gradient component
// drops below Opts.Tol or after Opts.MaxIter steps. The bias is not penalized.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return errors.New("logistic regression: no training rows")
	}
	if len(y) != n {
		return fmt.Errorf("logistic regression: %d rows but %d labels", n, len(y))
	}
	d := len(m.W)
	flat := make([]float64, 0, n*d)
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("logistic regression: row %d has %d features, model has %d", i+1, len(row), d)
		}
		flat = append(flat, row...)
	}
	Xm := mat.NewDense(n, d, flat)

	lambda := 0.0
	if m.Opts.C > 0 {
		lambda = 1 / (m.Opts.C * float64(n))
	}
	opt := optim.NewSGD(m.Opts.LearningRate)

	// params holds the weights followed by the bias so one step updates both.
	params := append(append(make([]float64, 0, d+1), m.W...), m.B)
	w := params[:d]
	grad := make([]float64, d+1)

	z := mat.NewVecDense(n, nil)
	g := mat.NewVecDense(d, nil)
	p := make([]float64, n)

	var loss float64
	it := 0
	for it < m.Opts.MaxIter {
		// Forward pass.
		z.MulVec(Xm, mat.NewVecDense(d, w))
		for i := range p {
			p[i] = NeuralNetwork.Sigmoid(z.AtVec(i) + params[d])
		}
		bce, dy := NeuralNetwork.BCE(y, p)
		loss = bce + lambda/2*floats.Dot(w, w)

		// Backward pass.
		g.MulVec(Xm.T(), mat.NewVecDense(n, dy))
		for j := range w {
			grad[j] = g.AtVec(j) + lambda*w[j]
		}
		grad[d] = floats.Sum(dy)

		if floats.Norm(grad, math.Inf(1)) < m.Opts.Tol {
			break
		}
		opt.Step(params, grad)
		it++
	}
	copy(m.W, w)
	m.B = params[d]
	m.Iterations = it
	m.Loss = loss
	log.Debug().Int("iterations", it).Float64("loss", loss).Msg("logistic regression fitted")
	return nil
}
