package loader

import (
	"sort"
	"strings"

	d "github.com/invertedv/crimedf"
)

// Summary describes the canonical table.
type Summary struct {
	TotalRecords   int       `json:"total_records"`
	UniqueStates   int       `json:"unique_states"`
	UniqueCounties int       `json:"unique_counties"`
	YearRange      YearRange `json:"year_range"`
	Columns        []string  `json:"columns"`
}

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ColumnCatalog splits the columns by kind.
type ColumnCatalog struct {
	Columns            []string `json:"columns"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
}

// MetricCatalog groups the numeric columns by subject.
type MetricCatalog struct {
	CrimeMetrics    []string `json:"crime_metrics"`
	EconomicMetrics []string `json:"economic_metrics"`
	OtherMetrics    []string `json:"other_metrics"`
	AllMetrics      []string `json:"all_metrics"`
}

var (
	crimeTerms    = []string{"crime", "murder", "rape", "robbery", "assault", "burglary", "larceny", "theft"}
	economicTerms = []string{"gdp", "population"}
)

// UniqueValues returns the sorted distinct non-missing values of column, or an empty list if
// the table has no such column.
func UniqueValues(t *d.Table, column string) []any {
	col, e := t.Column(column)
	if e != nil {
		return []any{}
	}

	return col.UniqueValues()
}

// Describe summarises t. Counties are counted as distinct (state, county) pairs.
func Describe(t *d.Table) *Summary {
	s := &Summary{TotalRecords: t.RowCount(), Columns: t.ColumnNames()}

	state, e1 := t.Column(d.StateName)
	county, e2 := t.Column(d.CountyClean)
	year, e3 := t.Column(d.Year)
	if e1 != nil || e2 != nil || e3 != nil {
		return s
	}

	s.UniqueStates = len(d.Unique(state.AsString()))

	type pair struct{ state, county string }
	pairs := make(map[pair]struct{})
	states, counties := state.AsString(), county.AsString()
	for row := range states {
		pairs[pair{states[row], counties[row]}] = struct{}{}
	}

	s.UniqueCounties = len(pairs)

	if years := year.AsInt(); len(years) > 0 {
		s.YearRange = YearRange{Min: years[0], Max: years[0]}
		for _, y := range years {
			s.YearRange.Min = min(s.YearRange.Min, y)
			s.YearRange.Max = max(s.YearRange.Max, y)
		}
	}

	return s
}

// Columns lists the columns of t by kind, in table order.
func Columns(t *d.Table) *ColumnCatalog {
	c := &ColumnCatalog{Columns: t.ColumnNames(), NumericColumns: []string{}, CategoricalColumns: []string{}}
	for _, col := range t.Columns() {
		if col.DataType().Numeric() {
			c.NumericColumns = append(c.NumericColumns, col.Name())
			continue
		}

		c.CategoricalColumns = append(c.CategoricalColumns, col.Name())
	}

	return c
}

// Metrics sorts the numeric columns of t into crime, economic and other metrics.
func Metrics(t *d.Table) *MetricCatalog {
	m := &MetricCatalog{
		CrimeMetrics:    []string{},
		EconomicMetrics: []string{},
		OtherMetrics:    []string{},
	}

	m.AllMetrics = Columns(t).NumericColumns
	for _, name := range m.AllMetrics {
		switch {
		case mentions(name, crimeTerms):
			m.CrimeMetrics = append(m.CrimeMetrics, name)
		case mentions(name, economicTerms):
			m.EconomicMetrics = append(m.EconomicMetrics, name)
		case name != d.Year:
			m.OtherMetrics = append(m.OtherMetrics, name)
		}
	}

	for _, x := range [][]string{m.CrimeMetrics, m.EconomicMetrics, m.OtherMetrics, m.AllMetrics} {
		sort.Strings(x)
	}

	return m
}

func mentions(name string, terms []string) bool {
	lower := strings.ToLower(name)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}

	return false
}
