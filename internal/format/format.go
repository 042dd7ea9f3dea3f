package format

import (
	"math"
	"strconv"

	"github.com/imishinist/nnresults/internal/models"
)

// DefaultPrecision is the number of decimals shown for averages.
const DefaultPrecision = 3

// NotAvailable is shown in place of an undefined average.
const NotAvailable = "n/a"

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Decimal renders v with a fixed number of decimals.
func Decimal(v float64, places int) string {
	return strconv.FormatFloat(Round(v, places), 'f', places, 64)
}

// MeanString renders a mean for display, or NotAvailable if it is undefined.
func MeanString(m models.Mean, places int) string {
	if !m.Defined() {
		return NotAvailable
	}
	return Decimal(m.Value(), places)
}

// RoundedMean returns the rounded mean, or nil if it is undefined.
func RoundedMean(m models.Mean, places int) *float64 {
	if !m.Defined() {
		return nil
	}
	v := Round(m.Value(), places)
	return &v
}
