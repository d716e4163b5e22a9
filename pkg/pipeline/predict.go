package pipeline

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"returnrisk/pkg/data"
	"returnrisk/pkg/dataprep"
	"returnrisk/pkg/model"
	"returnrisk/pkg/schema"
	"returnrisk/pkg/stats"
)

// Prediction holds per-row return probabilities and 0/1 decisions.
type Prediction struct {
	Probabilities []float64
	Decisions     []int
}

// Predict scores every row of t. t must carry the model's feature columns;
// the model's feature list, its scaler and its classifier must agree, or a
// *FeatureMismatchError is returned before anything is scaled.
func Predict(m *TrainedModel, t *data.Table) (*Prediction, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	for _, f := range m.Features {
		if !t.Has(f) {
			return nil, &FeatureMismatchError{Want: m.Features, Got: FeatureColumns(t)}
		}
	}
	X, err := featureMatrix(t, m.Features)
	if err != nil {
		return nil, err
	}
	Xs, err := m.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	probs := m.Classifier.PredictProba(Xs)
	return &Prediction{
		Probabilities: probs,
		Decisions:     model.BinaryPredFromProba(probs, model.DecisionThreshold),
	}, nil
}

func (m *TrainedModel) validate() error {
	if m == nil || m.Classifier == nil || m.Scaler == nil || !m.Scaler.Fitted() {
		return fmt.Errorf("model is not trained")
	}
	if !slices.Equal(m.Features, m.Scaler.Features) || m.Classifier.NumFeatures() != len(m.Features) {
		return &FeatureMismatchError{Want: m.Scaler.Features, Got: m.Features}
	}
	return nil
}

// ItemInput describes one product for a what-if prediction.
type ItemInput struct {
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Rating   *float64 `json:"rating,omitempty"`
}

// SinglePrediction is the outcome of PredictOne.
type SinglePrediction struct {
	Probability float64   `json:"probability"`
	Prediction  int       `json:"prediction"`
	Input       ItemInput `json:"input_data"`
	// Category and Rating actually fed to the model.
	UsedCategory    string   `json:"used_category"`
	UsedRating      float64  `json:"used_rating"`
	UnknownCategory bool     `json:"unknown_category"`
	Warnings        []string `json:"warnings,omitempty"`
}

// PredictOne scores a single item against a model trained on cleaned. A
// missing rating takes the training mean; a category never seen in training
// is replaced by the most frequent training category and flagged, not
// rejected.
func PredictOne(cleaned *data.Table, enc *dataprep.CategoryEncoder, m *TrainedModel, in ItemInput) (*SinglePrediction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	out := &SinglePrediction{Input: in, UsedCategory: strings.TrimSpace(in.Category)}

	if in.Rating != nil {
		out.UsedRating = *in.Rating
	} else {
		ratings, err := cleaned.Floats(schema.Rating)
		if err != nil {
			return nil, fmt.Errorf("training ratings: %w", err)
		}
		out.UsedRating = stats.Mean(ratings)
	}

	code := 0
	if enc != nil {
		c, ok := enc.Encode(out.UsedCategory)
		if !ok {
			categories, _ := cleaned.Column(schema.Category)
			mode, found := dataprep.Mode(categories)
			if !found {
				mode = dataprep.UnknownCategory
			}
			c, ok = enc.Encode(mode)
			if !ok {
				return nil, fmt.Errorf("modal category %q is not in the encoder", mode)
			}
			out.Warnings = append(out.Warnings, fmt.Sprintf("unknown category %q, used %q", out.UsedCategory, mode))
			out.UnknownCategory = true
			log.Warn().Str("category", in.Category).Str("fallback", mode).Msg("unknown category in single prediction")
		}
		code = c
		// Report the label the model was actually given.
		if label, ok := enc.Decode(code); ok {
			out.UsedCategory = label
		}
	}

	row, err := data.NewTable(schema.Features, [][]string{{
		data.FormatFloat(*in.Price),
		data.FormatFloat(out.UsedRating),
		fmt.Sprint(code),
	}})
	if err != nil {
		return nil, err
	}
	pred, err := Predict(m, row)
	if err != nil {
		return nil, err
	}
	out.Probability = pred.Probabilities[0]
	out.Prediction = pred.Decisions[0]
	return out, nil
}

func (in ItemInput) validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return &MalformedInputError{Field: "category", Reason: "required"}
	}
	if in.Price == nil {
		return &MalformedInputError{Field: "price", Reason: "required"}
	}
	if math.IsNaN(*in.Price) || math.IsInf(*in.Price, 0) {
		return &MalformedInputError{Field: "price", Reason: "must be a finite number"}
	}
	if in.Rating != nil && (math.IsNaN(*in.Rating) || math.IsInf(*in.Rating, 0)) {
		return &MalformedInputError{Field: "rating", Reason: "must be a finite number"}
	}
	return nil
}
