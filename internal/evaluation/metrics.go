package evaluation

import "github.com/lukeperry/ssu-career-connect/internal/scoring"

// ClassMetrics is the one-vs-rest quality of a single band. Undefined ratios are 0.
type ClassMetrics struct {
	Band      scoring.QualityBand
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

type Averages struct {
	Precision float64
	Recall    float64
	F1        float64
}

type Metrics struct {
	Total            int
	Correct          int
	OffByOneCorrect  int
	ExactAccuracy    float64
	OffByOneAccuracy float64
	Classes          [scoring.BandCount]ClassMetrics
	Macro            Averages
	Weighted         Averages
}

func ComputeMetrics(m *ConfusionMatrix) Metrics {
	metrics := Metrics{
		Total:           m.Total(),
		Correct:         m.Trace(),
		OffByOneCorrect: m.OffByOne(),
	}
	metrics.ExactAccuracy = ratio(metrics.Correct, metrics.Total)
	metrics.OffByOneAccuracy = ratio(metrics.OffByOneCorrect, metrics.Total)

	totalSupport := 0
	for _, band := range scoring.Bands() {
		tp := m.At(band, band)
		class := ClassMetrics{
			Band:      band,
			Precision: ratio(tp, m.ColumnTotal(band)),
			Recall:    ratio(tp, m.RowTotal(band)),
			Support:   m.RowTotal(band),
		}
		if class.Precision+class.Recall > 0 {
			class.F1 = 2 * class.Precision * class.Recall / (class.Precision + class.Recall)
		}
		metrics.Classes[band] = class

		metrics.Macro.Precision += class.Precision
		metrics.Macro.Recall += class.Recall
		metrics.Macro.F1 += class.F1

		support := float64(class.Support)
		metrics.Weighted.Precision += class.Precision * support
		metrics.Weighted.Recall += class.Recall * support
		metrics.Weighted.F1 += class.F1 * support
		totalSupport += class.Support
	}

	metrics.Macro.Precision /= scoring.BandCount
	metrics.Macro.Recall /= scoring.BandCount
	metrics.Macro.F1 /= scoring.BandCount

	if totalSupport > 0 {
		metrics.Weighted.Precision /= float64(totalSupport)
		metrics.Weighted.Recall /= float64(totalSupport)
		metrics.Weighted.F1 /= float64(totalSupport)
	}

	return metrics
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
