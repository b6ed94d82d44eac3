package aggregate

import (
	"math"

	d "github.com/invertedv/crimedf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reducer collapses the values of one group to a single number. Missing values are skipped.
type Reducer uint8

const (
	Mean Reducer = iota
	Sum
)

func (r Reducer) String() string {
	if r == Sum {
		return "sum"
	}

	return "mean"
}

// Reduce applies r to x. The mean of nothing is NaN, the sum of nothing is 0.
func (r Reducer) Reduce(x []float64) float64 {
	present := d.Present(x)
	switch r {
	case Sum:
		return floats.Sum(present)
	default:
		if len(present) == 0 {
			return math.NaN()
		}

		return stat.Mean(present, nil)
	}
}

// Metric pairs a column with its reducer.
type Metric struct {
	Column  string
	Reducer Reducer
}

// StateMetrics is the default metric set: rates are averaged, volumes are summed.
var StateMetrics = []Metric{
	{d.ViolentCrimeRate, Mean},
	{d.PropertyCrimeRate, Mean},
	{d.GDPPerCapita, Mean},
	{d.Population, Sum},
	{d.ViolentCrime, Sum},
	{d.PropertyCrime, Sum},
}

// CountyMetrics matches StateMetrics except that population is averaged over the years.
var CountyMetrics = []Metric{
	{d.ViolentCrimeRate, Mean},
	{d.PropertyCrimeRate, Mean},
	{d.GDPPerCapita, Mean},
	{d.Population, Mean},
	{d.ViolentCrime, Sum},
	{d.PropertyCrime, Sum},
}

// Select keeps the metrics whose column is in names, in default order. An empty names keeps all.
func Select(metrics []Metric, names []string) []Metric {
	if len(names) == 0 {
		return metrics
	}

	var out []Metric
	for _, m := range metrics {
		if d.Has(m.Column, names) {
			out = append(out, m)
		}
	}

	return out
}
