// Package aggregate groups the county table on one key and reduces the metric columns per group.
package aggregate

import (
	"fmt"

	d "github.com/invertedv/crimedf"
	"github.com/invertedv/crimedf/filter"
)

// Value is the name of the metric column in a time series.
const Value = "Value"

// By groups t on key and reduces each metric per group. The result has the key column followed
// by one column per metric present in t, one row per distinct key in ascending order.
func By(t *d.Table, key string, metrics ...Metric) (*d.Table, error) {
	groups, e := t.By(key)
	if e != nil {
		return nil, e
	}

	keyCol, _ := t.Column(key)
	rows := make([]int, len(groups))
	for ind, g := range groups {
		rows[ind] = g.Rows[0]
	}

	out, e := d.NewTable(keyCol.Where(rows))
	if e != nil {
		return nil, e
	}

	for _, m := range metrics {
		col, e := t.Column(m.Column)
		if e != nil {
			continue
		}

		c, e := d.NewCol(reduce(groups, col.AsFloat(), m.Reducer), d.DTfloat, d.ColName(m.Column))
		if e != nil {
			return nil, e
		}

		if e := out.AppendColumn(c); e != nil {
			return nil, fmt.Errorf("metric %s: %w", m.Column, e)
		}
	}

	return out, nil
}

// ByState aggregates per state over the given years (all if empty). metrics restricts the
// default set; unknown names are dropped.
func ByState(t *d.Table, years []int, metrics []string) (*d.Table, error) {
	sub := filter.Apply(t, filter.Predicates{Years: years})
	return By(sub, d.StateName, Select(StateMetrics, metrics)...)
}

// ByYear aggregates per year over the given states (all if empty).
func ByYear(t *d.Table, states []string) (*d.Table, error) {
	sub := filter.Apply(t, filter.Predicates{States: states})
	return By(sub, d.Year, StateMetrics...)
}

// ByCounty aggregates per county within state over the given years (all if empty).
func ByCounty(t *d.Table, state string, years []int) (*d.Table, error) {
	sub := filter.Apply(t, filter.Predicates{States: []string{state}, Years: years})
	return By(sub, d.CountyClean, CountyMetrics...)
}

// TimeSeries averages metric per year for an optional state and county. A metric t lacks falls
// back to the violent crime rate. The result has columns Year and Value.
func TimeSeries(t *d.Table, state, county, metric string) (*d.Table, error) {
	p := filter.Predicates{}
	if state != "" {
		p.States = []string{state}
	}

	if county != "" {
		p.Counties = []string{county}
	}

	if !t.HasColumn(metric) {
		metric = d.ViolentCrimeRate
	}

	sub := filter.Apply(t, p)
	out, e := By(sub, d.Year)
	if e != nil {
		return nil, e
	}

	col, e := sub.Column(metric)
	if e != nil {
		return nil, e
	}

	groups, _ := sub.By(d.Year)
	val, e := d.NewCol(reduce(groups, col.AsFloat(), Mean), d.DTfloat, d.ColName(Value))
	if e != nil {
		return nil, e
	}

	if e := out.AppendColumn(val); e != nil {
		return nil, e
	}

	return out, nil
}

func reduce(groups []d.Group, x []float64, r Reducer) []float64 {
	vals := make([]float64, len(groups))
	for ind, g := range groups {
		gx := make([]float64, len(g.Rows))
		for j, row := range g.Rows {
			gx[j] = x[row]
		}

		vals[ind] = r.Reduce(gx)
	}

	return vals
}
