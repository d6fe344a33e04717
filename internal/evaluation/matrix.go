package evaluation

import "github.com/lukeperry/ssu-career-connect/internal/scoring"

// ConfusionMatrix counts expected (rows) against predicted (columns) bands.
type ConfusionMatrix struct {
	cells [scoring.BandCount][scoring.BandCount]int
}

// Add records one prediction. Invalid bands are ignored and reported as false.
func (m *ConfusionMatrix) Add(expected, predicted scoring.QualityBand) bool {
	if !expected.Valid() || !predicted.Valid() {
		return false
	}
	m.cells[expected][predicted]++
	return true
}

func (m *ConfusionMatrix) At(expected, predicted scoring.QualityBand) int {
	if !expected.Valid() || !predicted.Valid() {
		return 0
	}
	return m.cells[expected][predicted]
}

func (m *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range m.cells {
		for _, count := range row {
			total += count
		}
	}
	return total
}

// Trace is the number of exact predictions.
func (m *ConfusionMatrix) Trace() int {
	trace := 0
	for i := range m.cells {
		trace += m.cells[i][i]
	}
	return trace
}

// OffByOne is the number of predictions at most one band away from the label.
func (m *ConfusionMatrix) OffByOne() int {
	count := 0
	for _, expected := range scoring.Bands() {
		for _, predicted := range scoring.Bands() {
			if expected.Distance(predicted) <= 1 {
				count += m.cells[expected][predicted]
			}
		}
	}
	return count
}

// RowTotal is the support of an expected band.
func (m *ConfusionMatrix) RowTotal(expected scoring.QualityBand) int {
	if !expected.Valid() {
		return 0
	}
	total := 0
	for _, count := range m.cells[expected] {
		total += count
	}
	return total
}

// ColumnTotal is how often a band was predicted.
func (m *ConfusionMatrix) ColumnTotal(predicted scoring.QualityBand) int {
	if !predicted.Valid() {
		return 0
	}
	total := 0
	for i := range m.cells {
		total += m.cells[i][predicted]
	}
	return total
}
