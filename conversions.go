package df

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber is the permissive numeric parser used for every declared numeric column.
// Anything that is not a number comes back as NaN (missing) rather than an error.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	x, e := strconv.ParseFloat(s, 64)
	if e != nil {
		return math.NaN()
	}

	return x
}

// IsNumber reports whether s parses as a number. Empty strings are not numbers.
func IsNumber(s string) bool {
	return !math.IsNaN(ParseNumber(s))
}

func IsMissing(x float64) bool {
	return math.IsNaN(x)
}

// FormatNumber renders x with the fewest digits that round-trip. Missing values render as "".
func FormatNumber(x float64) string {
	if math.IsNaN(x) {
		return ""
	}

	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Present drops missing values.
func Present(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, xv := range x {
		if !math.IsNaN(xv) {
			out = append(out, xv)
		}
	}

	return out
}

// jsonValue converts a cell to a JSON-friendly value; missing becomes nil.
func jsonValue(v *Vector, indx int) any {
	if v.Missing(indx) {
		return nil
	}

	x := v.Element(indx)
	if f, ok := x.(float64); ok && math.IsInf(f, 0) {
		return nil
	}

	return x
}
