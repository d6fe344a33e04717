package evaluation

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lukeperry/ssu-career-connect/internal/scoring"
)

type HeatLevel int

const (
	HeatNone HeatLevel = iota
	HeatLow
	HeatMedium
	HeatHigh
)

var heatSymbols = [...]string{"  ", "░░", "▒▒", "██"}

func (h HeatLevel) Symbol() string {
	return heatSymbols[h]
}

// Heat classifies a row-normalized percentage: 60 and up is high, 30 and up is
// medium, anything above zero is low.
func Heat(percent float64) HeatLevel {
	switch {
	case percent >= 60:
		return HeatHigh
	case percent >= 30:
		return HeatMedium
	case percent > 0:
		return HeatLow
	}
	return HeatNone
}

// RowPercent is the share of an expected band's pairs predicted as predicted.
func (m *ConfusionMatrix) RowPercent(expected, predicted scoring.QualityBand) float64 {
	return ratio(m.At(expected, predicted), m.RowTotal(expected)) * 100
}

// WriteReport prints the confusion matrix, per-class metrics, accuracies, heatmap and
// mismatch list.
func WriteReport(w io.Writer, e *Evaluation) error {
	rw := &reportWriter{w: w}
	bands := scoring.Bands()

	rw.section("CONFUSION MATRIX: expected (rows) vs predicted (columns)")
	rw.table(func(tw io.Writer) {
		fmt.Fprint(tw, "Expected")
		for _, band := range bands {
			fmt.Fprintf(tw, "\t%v", band)
		}
		fmt.Fprintln(tw, "\t")
		for _, expected := range bands {
			fmt.Fprint(tw, expected)
			for _, predicted := range bands {
				if count := e.Matrix.At(expected, predicted); count > 0 {
					fmt.Fprintf(tw, "\t%d", count)
				} else {
					fmt.Fprint(tw, "\t-")
				}
			}
			fmt.Fprintln(tw, "\t")
		}
	})

	m := e.Metrics
	rw.section("CLASSIFICATION METRICS")
	rw.printf("Total pairs: %d\n", m.Total)
	rw.printf("Correct predictions: %d\n", m.Correct)
	if unclassified := len(e.Unclassified()); unclassified > 0 {
		rw.printf("Unclassified pairs: %d\n", unclassified)
	}
	rw.printf("\n")
	rw.table(func(tw io.Writer) {
		fmt.Fprintln(tw, "Class\tPrecision\tRecall\tF1\tSupport\t")
		for _, class := range m.Classes {
			fmt.Fprintf(tw, "%v\t%.1f%%\t%.1f%%\t%.1f%%\t%d\t\n",
				class.Band, class.Precision*100, class.Recall*100, class.F1*100, class.Support)
		}
		fmt.Fprintf(tw, "Macro avg\t%.1f%%\t%.1f%%\t%.1f%%\t%d\t\n",
			m.Macro.Precision*100, m.Macro.Recall*100, m.Macro.F1*100, m.Total)
		fmt.Fprintf(tw, "Weighted avg\t%.1f%%\t%.1f%%\t%.1f%%\t%d\t\n",
			m.Weighted.Precision*100, m.Weighted.Recall*100, m.Weighted.F1*100, m.Total)
	})
	rw.printf("\nExact accuracy: %.1f%%\n", m.ExactAccuracy*100)
	rw.printf("Off-by-one accuracy: %.1f%%\n", m.OffByOneAccuracy*100)

	rw.section("HEATMAP (normalized by row)")
	rw.printf("%s high (>=60%%)  %s medium (30-60%%)  %s low (<30%%)\n\n",
		HeatHigh.Symbol(), HeatMedium.Symbol(), HeatLow.Symbol())
	rw.table(func(tw io.Writer) {
		fmt.Fprint(tw, "Expected")
		for _, band := range bands {
			fmt.Fprintf(tw, "\t%v", band)
		}
		fmt.Fprintln(tw, "\t")
		for _, expected := range bands {
			fmt.Fprint(tw, expected)
			for _, predicted := range bands {
				percent := e.Matrix.RowPercent(expected, predicted)
				fmt.Fprintf(tw, "\t%s %.0f%%", Heat(percent).Symbol(), percent)
			}
			fmt.Fprintln(tw, "\t")
		}
	})

	if mismatches := e.Mismatches(); len(mismatches) > 0 {
		rw.section("MISMATCHES")
		for _, outcome := range mismatches {
			rw.printf("talent %v (%v) vs job %v (%v): expected %v, got %v (%.1f%%)\n",
				outcome.Pair.Talent.ID, outcome.Pair.Talent.Name, outcome.Pair.Job.ID, outcome.Pair.Job.Title,
				outcome.Pair.Expected, outcome.Predicted, scoring.Percentage(outcome.Score))
			for component := range outcome.Result.Breakdown.All() {
				rw.printf("    %-20s raw %.3f x %.2f = %.3f%s\n", component.Name, component.RawScore,
					component.Weight, component.WeightedContribution, componentNote(component))
			}
		}
	}

	if unclassified := e.Unclassified(); len(unclassified) > 0 {
		rw.section("UNCLASSIFIED")
		for _, outcome := range unclassified {
			rw.printf("talent %v vs job %v: %v\n", outcome.Pair.Talent.ID, outcome.Pair.Job.ID, outcome.Err)
		}
	}

	return rw.err
}

func componentNote(c scoring.ComponentResult) string {
	var notes []string
	if c.Rule != "" {
		notes = append(notes, c.Rule)
	}
	if c.Degraded {
		notes = append(notes, "degraded")
	}
	if len(notes) == 0 {
		return ""
	}
	return " [" + strings.Join(notes, ", ") + "]"
}

// reportWriter keeps the first write error so the report code can stay linear.
type reportWriter struct {
	w   io.Writer
	err error
}

func (r *reportWriter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *reportWriter) section(title string) {
	r.printf("\n%s\n%s\n%s\n", strings.Repeat("=", 80), title, strings.Repeat("=", 80))
}

func (r *reportWriter) table(rows func(tw io.Writer)) {
	if r.err != nil {
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	rows(tw)
	r.err = tw.Flush()
}
