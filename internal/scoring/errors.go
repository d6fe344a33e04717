package scoring

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrModelUnavailable is returned by the text scorer's model path when the external
// similarity model cannot answer in time. The pipeline never surfaces it to callers.
var ErrModelUnavailable = errors.New("text similarity model unavailable")

// InvalidInputError rejects a descriptor before any component runs.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// NewInvalidInput names the offending field.
func NewInvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

// IsInvalidInput reports whether err carries an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// WeightConfigurationError means the configured weights can't be used. It's a
// deployment error and is only produced at startup.
type WeightConfigurationError struct {
	Sum    float64
	Reason string
}

func (e *WeightConfigurationError) Error() string {
	if e.Reason != "" {
		return "weight configuration: " + e.Reason
	}
	return fmt.Sprintf("weight configuration: weights sum to %.6f, expected 1.0", e.Sum)
}
