package evaluation

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const gateTolerance = 1e-9

// Baseline is the accepted quality of the last recorded run.
type Baseline struct {
	ExactAccuracy    float64   `yaml:"exact_accuracy"`
	OffByOneAccuracy float64   `yaml:"off_by_one_accuracy"`
	Total            int       `yaml:"total"`
	RecordedAt       time.Time `yaml:"recorded_at"`
}

func NewBaseline(metrics Metrics, now time.Time) Baseline {
	return Baseline{
		ExactAccuracy:    metrics.ExactAccuracy,
		OffByOneAccuracy: metrics.OffByOneAccuracy,
		Total:            metrics.Total,
		RecordedAt:       now.UTC(),
	}
}

// LoadBaseline returns nil without an error when the file doesn't exist yet.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read baseline")
	}

	var baseline Baseline
	if err := yaml.Unmarshal(data, &baseline); err != nil {
		return nil, errors.Wrap(err, "parse baseline")
	}
	return &baseline, nil
}

func SaveBaseline(path string, baseline Baseline) error {
	data, err := yaml.Marshal(baseline)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write baseline")
}

// RegressionError lists every metric that fell below the baseline.
type RegressionError struct {
	Regressions []string
}

func (e *RegressionError) Error() string {
	return "quality regression: " + strings.Join(e.Regressions, "; ")
}

// CheckRegression fails when exact or off-by-one accuracy dropped below baseline.
func CheckRegression(baseline Baseline, metrics Metrics) error {
	var regressions []string
	if metrics.ExactAccuracy+gateTolerance < baseline.ExactAccuracy {
		regressions = append(regressions, fmt.Sprintf("exact accuracy %.1f%% < baseline %.1f%%",
			metrics.ExactAccuracy*100, baseline.ExactAccuracy*100))
	}
	if metrics.OffByOneAccuracy+gateTolerance < baseline.OffByOneAccuracy {
		regressions = append(regressions, fmt.Sprintf("off-by-one accuracy %.1f%% < baseline %.1f%%",
			metrics.OffByOneAccuracy*100, baseline.OffByOneAccuracy*100))
	}
	if len(regressions) > 0 {
		return &RegressionError{Regressions: regressions}
	}
	return nil
}
