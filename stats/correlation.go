package stats

import (
	"math"

	d "github.com/invertedv/crimedf"
	"gonum.org/v1/gonum/stat"
)

// DefaultVariables are correlated when the caller names none.
var DefaultVariables = []string{d.GDPPerCapita, d.ViolentCrimeRate, d.PropertyCrimeRate, d.Population}

// CorrelationMatrix is a symmetric Pearson matrix keyed by variable name.
type CorrelationMatrix struct {
	Matrix    map[string]map[string]Float `json:"matrix"`
	Variables []string                    `json:"variables"`
}

// Get returns the correlation of a and b, NaN if either is not in the matrix.
func (c *CorrelationMatrix) Get(a, b string) float64 {
	if row, ok := c.Matrix[a]; ok {
		if x, ok := row[b]; ok {
			return float64(x)
		}
	}

	return math.NaN()
}

// Correlation computes pairwise Pearson correlations among variables (DefaultVariables if empty).
// Names t lacks are dropped from Variables; non-numeric columns stay in Variables but not in the
// matrix. Each pair uses the rows where both values are present; a pair with fewer than two
// such rows or a constant side is NaN.
func Correlation(t *d.Table, variables []string, f Filters) *CorrelationMatrix {
	if len(variables) == 0 {
		variables = DefaultVariables
	}

	sub := f.apply(t)

	out := &CorrelationMatrix{Matrix: make(map[string]map[string]Float), Variables: []string{}}
	var (
		names []string
		data  [][]float64
	)

	for _, v := range variables {
		col, e := sub.Column(v)
		if e != nil || d.Has(v, out.Variables) {
			continue
		}

		out.Variables = append(out.Variables, v)
		if col.DataType().Numeric() {
			names = append(names, v)
			data = append(data, col.AsFloat())
		}
	}

	for i, a := range names {
		out.Matrix[a] = make(map[string]Float)
		for j, b := range names {
			if j < i {
				out.Matrix[a][b] = out.Matrix[b][a]
				continue
			}

			out.Matrix[a][b] = Float(pearson(data[i], data[j], i == j))
		}
	}

	return out
}

func pearson(x, y []float64, self bool) float64 {
	var xs, ys []float64
	for ind := range x {
		if math.IsNaN(x[ind]) || math.IsNaN(y[ind]) {
			continue
		}

		xs = append(xs, x[ind])
		ys = append(ys, y[ind])
	}

	if len(xs) < 2 || stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}

	if self {
		return 1
	}

	r := stat.Correlation(xs, ys, nil)

	return math.Max(-1, math.Min(1, r))
}
