package dataprep

import (
	"fmt"
	"slices"
)

// CategoryEncoder maps category labels to integer codes and back. Codes
// follow the sorted order of the distinct labels it was fitted on, so they
// are stable for a given set of categories but mean nothing across datasets.
type CategoryEncoder struct {
	codes  map[string]int
	labels []string
}

// FitCategoryEncoder learns the codes for the distinct values in data.
func FitCategoryEncoder(data []string) *CategoryEncoder {
	labels := slices.Clone(data)
	slices.Sort(labels)
	labels = slices.Compact(labels)

	codes := make(map[string]int, len(labels))
	for i, l := range labels {
		codes[l] = i
	}
	return &CategoryEncoder{codes: codes, labels: labels}
}

// Encode returns the code of label and whether the label was seen at fit time.
func (e *CategoryEncoder) Encode(label string) (int, bool) {
	c, ok := e.codes[label]
	return c, ok
}

// Decode returns the label for a code.
func (e *CategoryEncoder) Decode(code int) (string, bool) {
	if code < 0 || code >= len(e.labels) {
		return "", false
	}
	return e.labels[code], true
}

// Transform encodes every value; an unseen label is an error.
func (e *CategoryEncoder) Transform(data []string) ([]int, error) {
	out := make([]int, len(data))
	for i, v := range data {
		c, ok := e.codes[v]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", v)
		}
		out[i] = c
	}
	return out, nil
}

// Classes lists the fitted labels in code order.
func (e *CategoryEncoder) Classes() []string { return slices.Clone(e.labels) }

func (e *CategoryEncoder) Len() int { return len(e.labels) }
