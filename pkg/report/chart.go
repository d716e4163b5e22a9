package report

import (
	"bytes"
	"errors"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramBins is the bin count of the probability histogram.
const HistogramBins = 30

// Histogram renders the distribution of return probabilities as a PNG.
func Histogram(probs []float64) ([]byte, error) {
	if len(probs) == 0 {
		return nil, errors.New("histogram: no probabilities")
	}
	p := plot.New()
	p.Title.Text = "Return probability distribution"
	p.X.Label.Text = "Return probability"
	p.Y.Label.Text = "Orders"

	h, err := plotter.NewHist(plotter.Values(probs), HistogramBins)
	if err != nil {
		return nil, err
	}
	h.FillColor = color.RGBA{R: 135, G: 206, B: 235, A: 180}
	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 220}
	grid.Horizontal.Color = color.Gray{Y: 220}
	p.Add(grid, h)

	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
