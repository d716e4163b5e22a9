package dataprep

import (
	"errors"
	"fmt"

	"returnrisk/pkg/data"
	"returnrisk/pkg/stats"
)

// ErrAllMissing is returned when a column has no value to impute from.
var ErrAllMissing = errors.New("every value is missing")

// ImputeMean replaces missing numeric values with the mean of the present
// ones. It returns a new slice and the mean used.
func ImputeMean(col []string) ([]string, float64, error) {
	var nums []float64
	for i, v := range col {
		f, ok, err := data.ParseFloat(v)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return nil, 0, ErrAllMissing
	}
	mean := stats.Mean(nums)

	out := make([]string, len(col))
	fill := data.FormatFloat(mean)
	for i, v := range col {
		if data.IsMissing(v) {
			out[i] = fill
		} else {
			out[i] = v
		}
	}
	return out, mean, nil
}

// Mode returns the most frequent present value. Ties go to the value seen
// first. ok is false when every value is missing.
func Mode(col []string) (mode string, ok bool) {
	counts := make(map[string]int)
	var order []string
	for _, v := range col {
		if data.IsMissing(v) {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best := 0
	for _, v := range order {
		if counts[v] > best {
			best = counts[v]
			mode = v
		}
	}
	return mode, best > 0
}

// ImputeMode replaces missing values with the column mode, or with fallback
// when the column has no present value. It returns a new slice and the fill.
func ImputeMode(col []string, fallback string) ([]string, string) {
	fill, ok := Mode(col)
	if !ok {
		fill = fallback
	}
	return ImputeConstant(col, fill), fill
}

// ImputeConstant replaces missing values with a fixed constant.
func ImputeConstant(col []string, constant string) []string {
	out := make([]string, len(col))
	for i, v := range col {
		if data.IsMissing(v) {
			out[i] = constant
		} else {
			out[i] = v
		}
	}
	return out
}
