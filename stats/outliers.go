package stats

import (
	"encoding/json"
	"fmt"
	"strings"

	d "github.com/invertedv/crimedf"
)

// MethodIQR flags values outside [Q1 - 1.5 IQR, Q3 + 1.5 IQR]. It is the only method.
const MethodIQR = "iqr"

const iqrFence = 1.5

// Outlier is one flagged record, projected to its key and the variable examined.
type Outlier struct {
	State    string
	County   string
	Year     int
	Variable string
	Value    float64
}

// MarshalJSON renders the outlier as a record keyed by column name.
func (o Outlier) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		d.StateName:   o.State,
		d.CountyClean: o.County,
		d.Year:        o.Year,
		o.Variable:    Float(o.Value),
	})
}

// Outliers returns the records of t, selected by f, whose variable lies outside the IQR fences.
// An unknown variable yields no outliers. method must be "iqr" (or empty); anything else is
// ErrUnknownMethod.
func Outliers(t *d.Table, variable, method string, f Filters) ([]Outlier, error) {
	if method != "" && !strings.EqualFold(method, MethodIQR) {
		return nil, fmt.Errorf("%w %q: supported methods are %q", ErrUnknownMethod, method, MethodIQR)
	}

	out := []Outlier{}

	sub := f.apply(t)
	col, e := sub.Column(variable)
	if e != nil {
		return out, nil
	}

	x := col.AsFloat()
	sorted := sortedCopy(d.Present(x))
	q1, q3 := quantile(0.25, sorted), quantile(0.75, sorted)
	iqr := q3 - q1
	lo, hi := q1-iqrFence*iqr, q3+iqrFence*iqr

	state, _ := sub.Column(d.StateName)
	county, _ := sub.Column(d.CountyClean)
	year, _ := sub.Column(d.Year)
	years := year.AsInt()
	for row, v := range x {
		// NaN values and NaN fences compare false both ways and are never flagged
		if outside := v < lo || v > hi; !outside {
			continue
		}

		out = append(out, Outlier{
			State:    state.ElementString(row),
			County:   county.ElementString(row),
			Year:     years[row],
			Variable: variable,
			Value:    v,
		})
	}

	return out, nil
}
