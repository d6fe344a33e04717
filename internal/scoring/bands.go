package scoring

import (
	"fmt"
	"math"
	"strings"
)

// QualityBand is an ordered label for a score. Lower values are better bands.
type QualityBand int

const (
	Perfect QualityBand = iota
	Excellent
	Good
	Moderate
	Low
	Poor
)

// BandCount is the number of quality bands.
const BandCount = 6

var bandNames = [BandCount]string{"PERFECT", "EXCELLENT", "GOOD", "MODERATE", "LOW", "POOR"}

// BandRange is an inclusive range of integer percentages.
type BandRange struct {
	Band QualityBand
	Min  int
	Max  int
}

// bandTable is ordered from the best band down and partitions 0..100.
var bandTable = [BandCount]BandRange{
	{Band: Perfect, Min: 85, Max: 100},
	{Band: Excellent, Min: 70, Max: 84},
	{Band: Good, Min: 55, Max: 69},
	{Band: Moderate, Min: 40, Max: 54},
	{Band: Low, Min: 25, Max: 39},
	{Band: Poor, Min: 0, Max: 24},
}

// Bands lists every band from best to worst.
func Bands() []QualityBand {
	return []QualityBand{Perfect, Excellent, Good, Moderate, Low, Poor}
}

// BandRanges returns a copy of the range table.
func BandRanges() []BandRange {
	ranges := bandTable
	return ranges[:]
}

func (b QualityBand) String() string {
	if !b.Valid() {
		return fmt.Sprintf("QualityBand(%d)", int(b))
	}
	return bandNames[b]
}

// Valid reports whether b is one of the six bands.
func (b QualityBand) Valid() bool {
	return b >= Perfect && b <= Poor
}

// Range returns the inclusive percentage range of b.
func (b QualityBand) Range() BandRange {
	return bandTable[b]
}

// Distance is the number of steps between two bands in the ordering.
func (b QualityBand) Distance(other QualityBand) int {
	d := int(b) - int(other)
	if d < 0 {
		return -d
	}
	return d
}

func (b QualityBand) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid quality band %d", int(b))
	}
	return []byte(b.String()), nil
}

func (b *QualityBand) UnmarshalText(text []byte) error {
	band, err := ParseBand(string(text))
	if err != nil {
		return err
	}
	*b = band
	return nil
}

// ParseBand resolves a band by its name, case-insensitively.
func ParseBand(name string) (QualityBand, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range bandNames {
		if n == name {
			return QualityBand(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quality band %q", name)
}

// Percentage converts a score to a percentage, dropping float noise below 1e-6.
func Percentage(score float64) float64 {
	return math.Round(clamp01(score)*100*1e6) / 1e6
}

// ClassifyPercentage maps a percentage to its band. Values between two integer
// ranges belong to the lower band, values outside 0..100 are clamped.
func ClassifyPercentage(percentage float64) QualityBand {
	if math.IsNaN(percentage) || percentage < 0 {
		percentage = 0
	}
	for _, r := range bandTable {
		if percentage >= float64(r.Min) {
			return r.Band
		}
	}
	return Poor
}

// ClassifyScore maps a score in [0,1] to its band.
func ClassifyScore(score float64) QualityBand {
	return ClassifyPercentage(Percentage(score))
}
