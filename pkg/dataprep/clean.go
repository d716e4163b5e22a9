package dataprep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"returnrisk/pkg/data"
	"returnrisk/pkg/schema"
)

// UnknownCategory fills the category column when it has no value at all.
const UnknownCategory = "Unknown"

// Clean imputes missing ratings (column mean) and categories (column mode),
// trims category labels, then appends the encoded category column. resolved is not modified.
// A rating column with no usable value is a configuration error.
func Clean(resolved *data.Table) (*data.Table, *CategoryEncoder, error) {
	cleaned := resolved.Clone()

	if ratings, ok := cleaned.Column(schema.Rating); ok {
		filled, mean, err := ImputeMean(ratings)
		if err != nil {
			return nil, nil, fmt.Errorf("impute %s: %w", schema.Rating, err)
		}
		if err := cleaned.SetColumn(schema.Rating, filled); err != nil {
			return nil, nil, err
		}
		log.Debug().Str("column", schema.Rating).Float64("mean", mean).Msg("imputed with mean")
	}

	categories, ok := cleaned.Column(schema.Category)
	if !ok {
		return cleaned, nil, nil
	}
	// Labels are compared trimmed, here and at single-item prediction.
	for i, c := range categories {
		categories[i] = strings.TrimSpace(c)
	}
	filled, mode := ImputeMode(categories, UnknownCategory)
	if err := cleaned.SetColumn(schema.Category, filled); err != nil {
		return nil, nil, err
	}
	log.Debug().Str("column", schema.Category).Str("mode", mode).Msg("imputed with mode")

	enc := FitCategoryEncoder(filled)
	codes, err := enc.Transform(filled)
	if err != nil {
		return nil, nil, err
	}
	encoded := make([]string, len(codes))
	for i, c := range codes {
		encoded[i] = strconv.Itoa(c)
	}
	if err := cleaned.SetColumn(schema.CategoryCode, encoded); err != nil {
		return nil, nil, err
	}
	return cleaned, enc, nil
}
