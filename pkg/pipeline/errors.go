package pipeline

import (
	"fmt"
	"strings"

	"returnrisk/pkg/schema"
)

// SchemaResolutionError lists every reason a dataset could not be resolved.
type SchemaResolutionError = schema.ResolutionError

// DegenerateLabelError means the returned flag holds a single class, so no
// classifier can be trained. Training fails instead of producing a constant
// model.
type DegenerateLabelError struct {
	Class int
	Rows  int
}

func (e *DegenerateLabelError) Error() string {
	return fmt.Sprintf("cannot train: all %d orders have %s=%d, need both 0 and 1", e.Rows, schema.Returned, e.Class)
}

// MalformedInputError is a required value that is absent or of the wrong type.
type MalformedInputError struct {
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidColumnError is a dataset column whose values cannot be used, such
// as a missing or non-numeric price. Unlike MalformedInputError it describes
// the uploaded data, not the request.
type InvalidColumnError struct {
	Column string
	Err    error
}

func (e *InvalidColumnError) Error() string { return "invalid dataset: " + e.Err.Error() }
func (e *InvalidColumnError) Unwrap() error { return e.Err }

// FeatureMismatchError means the inputs handed to Predict do not line up
// with the features the model was trained on.
type FeatureMismatchError struct {
	Want []string
	Got  []string
}

func (e *FeatureMismatchError) Error() string {
	return fmt.Sprintf("feature mismatch: model expects [%s], got [%s]", strings.Join(e.Want, ", "), strings.Join(e.Got, ", "))
}
