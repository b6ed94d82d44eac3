package stats

import (
	"fmt"
	"math"

	d "github.com/invertedv/crimedf"
	"github.com/invertedv/crimedf/aggregate"
	"github.com/invertedv/crimedf/filter"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Increasing = "increasing"
	Decreasing = "decreasing"
)

// TrendResult is a least-squares line through the yearly means of a variable.
type TrendResult struct {
	Trend    string    `json:"trend"`
	Slope    Float     `json:"slope"`
	RSquared Float     `json:"r_squared"`
	PValue   Float     `json:"p_value"`
	Years    []int     `json:"years"`
	Values   []float64 `json:"values"`
}

// Trend fits variable's yearly mean against year, optionally for one state. Years whose mean
// is missing are dropped; fewer than two remaining years is ErrInsufficientData. A zero slope
// is reported as decreasing.
func Trend(t *d.Table, variable, state string) (*TrendResult, error) {
	if state != "" {
		t = filter.Apply(t, filter.Predicates{States: []string{state}})
	}

	if !t.HasColumn(variable) {
		return nil, fmt.Errorf("variable %s: %w", variable, ErrVariableNotFound)
	}

	yearly, e := aggregate.By(t, d.Year, aggregate.Metric{Column: variable, Reducer: aggregate.Mean})
	if e != nil {
		return nil, e
	}

	yc, _ := yearly.Column(d.Year)
	vc, e := yearly.Column(variable)
	if e != nil {
		return nil, fmt.Errorf("variable %s: %w", variable, ErrVariableNotFound)
	}

	res := &TrendResult{Years: []int{}, Values: []float64{}}
	allYears, allVals := yc.AsInt(), vc.AsFloat()
	for ind, v := range allVals {
		if math.IsNaN(v) {
			continue
		}

		res.Years = append(res.Years, allYears[ind])
		res.Values = append(res.Values, v)
	}

	if len(res.Values) < 2 {
		return nil, ErrInsufficientData
	}

	x := make([]float64, len(res.Years))
	for ind, yr := range res.Years {
		x[ind] = float64(yr)
	}

	_, slope := stat.LinearRegression(x, res.Values, nil, false)
	r := pearsonR(x, res.Values)

	res.Slope = Float(slope)
	res.RSquared = Float(r * r)
	res.PValue = Float(pValue(r, res.Values))
	res.Trend = Decreasing
	if slope > 0 {
		res.Trend = Increasing
	}

	return res, nil
}

// pearsonR is the correlation of x and y, 0 when either side is constant.
func pearsonR(x, y []float64) float64 {
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0
	}

	return math.Max(-1, math.Min(1, stat.Correlation(x, y, nil)))
}

// pValue is the two-sided p-value for the null hypothesis of zero slope, using a t test with
// n-2 degrees of freedom. With two points the fit is exact: 1 for a flat line, 0 otherwise.
func pValue(r float64, y []float64) float64 {
	const tiny = 1.0e-20

	n := len(y)
	if n == 2 {
		if y[0] == y[1] {
			return 1
		}

		return 0
	}

	df := float64(n - 2)
	tStat := r * math.Sqrt(df/((1-r+tiny)*(1+r+tiny)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}

	return 2 * dist.Survival(math.Abs(tStat))
}
