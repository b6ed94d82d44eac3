package stats

import (
	"fmt"

	d "github.com/invertedv/crimedf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the descriptive statistics of one variable.
type Summary struct {
	Mean   Float `json:"mean"`
	Median Float `json:"median"`
	Std    Float `json:"std"`
	Min    Float `json:"min"`
	Max    Float `json:"max"`
	Q25    Float `json:"q25"`
	Q75    Float `json:"q75"`
	Count  int   `json:"count"`
}

// Describe summarises variable over the rows selected by f. Unparsable and missing values are
// ignored. The standard deviation is the sample one; a single value has a deviation of 0.
func Describe(t *d.Table, variable string, f Filters) (*Summary, error) {
	x, e := values(f.apply(t), variable)
	if e != nil {
		return nil, fmt.Errorf("variable %s: %w", variable, e)
	}

	if len(x) == 0 {
		return nil, ErrNoData
	}

	sorted := sortedCopy(x)
	s := &Summary{
		Mean:   Float(stat.Mean(sorted, nil)),
		Median: Float(quantile(0.5, sorted)),
		Min:    Float(floats.Min(sorted)),
		Max:    Float(floats.Max(sorted)),
		Q25:    Float(quantile(0.25, sorted)),
		Q75:    Float(quantile(0.75, sorted)),
		Count:  len(sorted),
	}

	if len(sorted) > 1 {
		s.Std = Float(stat.StdDev(sorted, nil))
	}

	return s, nil
}
