// Package filter selects the rows of a table that satisfy a conjunction of predicates.
package filter

import (
	"math"

	d "github.com/invertedv/crimedf"
)

// Range is an inclusive interval; a nil bound is open.
type Range struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Active is true if either bound is set.
func (r Range) Active() bool {
	return r.Min != nil || r.Max != nil
}

// Contains reports whether x is within r. A missing x is never within an active range.
func (r Range) Contains(x float64) bool {
	if !r.Active() {
		return true
	}

	if math.IsNaN(x) {
		return false
	}

	if r.Min != nil && x < *r.Min {
		return false
	}

	return r.Max == nil || x <= *r.Max
}

// Between is a convenience constructor for a closed Range.
func Between(lo, hi float64) Range {
	return Range{Min: &lo, Max: &hi}
}

// Predicates are AND-combined. Empty membership lists and inactive ranges impose nothing.
type Predicates struct {
	States   []string `json:"states"`
	Counties []string `json:"counties"`
	Years    []int    `json:"years"`

	GDPPerCapita      Range `json:"-"`
	Population        Range `json:"-"`
	ViolentCrimeRate  Range `json:"-"`
	PropertyCrimeRate Range `json:"-"`

	// Metrics bounds arbitrary columns. Names the table does not have are ignored.
	Metrics map[string]Range `json:"metric_filters"`
}

type bound struct {
	column string
	rng    Range
}

// ranges folds the fixed ranges and the Metrics map into one list.
func (p Predicates) ranges() []bound {
	out := []bound{
		{d.GDPPerCapita, p.GDPPerCapita},
		{d.Population, p.Population},
		{d.ViolentCrimeRate, p.ViolentCrimeRate},
		{d.PropertyCrimeRate, p.PropertyCrimeRate},
	}

	for col, rng := range p.Metrics {
		out = append(out, bound{col, rng})
	}

	return out
}

// Apply returns a new table with the rows of t that satisfy p, in table order.
func Apply(t *d.Table, p Predicates) *d.Table {
	var tests []func(row int) bool

	if test := member(t, d.StateName, d.Set(p.States)); test != nil {
		tests = append(tests, test)
	}

	if test := member(t, d.CountyClean, d.Set(p.Counties)); test != nil {
		tests = append(tests, test)
	}

	if test := member(t, d.Year, d.Set(p.Years)); test != nil {
		tests = append(tests, test)
	}

	for _, b := range p.ranges() {
		if !b.rng.Active() {
			continue
		}

		col, e := t.Column(b.column)
		if e != nil {
			continue
		}

		x, rng := col.AsFloat(), b.rng
		tests = append(tests, func(row int) bool { return rng.Contains(x[row]) })
	}

	return t.Filter(func(row int) bool {
		for _, test := range tests {
			if !test(row) {
				return false
			}
		}

		return true
	})
}

// member builds a membership test on column. A nil set or a column t lacks yields no test,
// except that a requested membership on a missing column matches nothing.
func member[C string | int](t *d.Table, column string, set map[C]struct{}) func(row int) bool {
	if set == nil {
		return nil
	}

	col, e := t.Column(column)
	if e != nil {
		return func(int) bool { return false }
	}

	var vals []C
	switch any(set).(type) {
	case map[string]struct{}:
		vals = any(col.AsString()).([]C)
	default:
		vals = any(col.AsInt()).([]C)
	}

	return func(row int) bool {
		_, ok := set[vals[row]]
		return ok
	}
}

// CountiesByState returns the sorted distinct counties of state.
func CountiesByState(t *d.Table, state string) []string {
	st := Apply(t, Predicates{States: []string{state}})
	col, e := st.Column(d.CountyClean)
	if e != nil {
		return []string{}
	}

	out := d.Unique(col.AsString())
	if out == nil {
		return []string{}
	}

	return out
}
