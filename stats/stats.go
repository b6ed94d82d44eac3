// Package stats computes descriptive statistics over the county table: correlation matrices,
// summaries, linear trends over time and IQR outliers.
//
// Failures a caller can act on (an unknown variable, too little data) are returned as the
// sentinel errors below so the API layer can hand them back as data.
package stats

import (
	"errors"
	"math"
	"sort"
	"strconv"

	d "github.com/invertedv/crimedf"
	"github.com/invertedv/crimedf/filter"
)

var (
	ErrVariableNotFound = errors.New("variable not found")
	ErrNoData           = errors.New("no valid values found")
	ErrInsufficientData = errors.New("insufficient data for trend analysis")
	ErrUnknownMethod    = errors.New("unknown outlier method")
)

// Filters restrict the rows a statistic is computed over. Empty lists restrict nothing.
type Filters struct {
	States []string `json:"states"`
	Years  []int    `json:"years"`
}

func (f Filters) apply(t *d.Table) *d.Table {
	return filter.Apply(t, filter.Predicates{States: f.States, Years: f.Years})
}

// Float is a float64 that marshals NaN and ±Inf as JSON null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return []byte("null"), nil
	}

	return strconv.AppendFloat(nil, x, 'g', -1, 64), nil
}

func (f Float) IsNaN() bool {
	return math.IsNaN(float64(f))
}

// values returns the present values of variable in t, or ErrVariableNotFound.
func values(t *d.Table, variable string) ([]float64, error) {
	col, e := t.Column(variable)
	if e != nil {
		return nil, ErrVariableNotFound
	}

	return d.Present(col.AsFloat()), nil
}

// quantile is the linear-interpolation quantile (Hyndman & Fan type 7) of sorted x.
// gonum's stat.Quantile offers only the empirical and LinInterp (type 4) estimators.
func quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	h := p * float64(n-1)
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}

	if h == lo {
		return sorted[i]
	}

	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func sortedCopy(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	sort.Float64s(out)

	return out
}
