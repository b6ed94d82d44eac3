package stats

import (
	"encoding/json"
	"math"
	"testing"

	d "github.com/invertedv/crimedf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTable(t *testing.T) *d.Table {
	cols := []struct {
		name string
		data any
	}{
		{d.StateName, []string{"A", "A", "A", "B", "B", "B"}},
		{d.CountyClean, []string{"X", "X", "X", "Y", "Y", "Y"}},
		{d.Year, []int{2015, 2016, 2017, 2015, 2016, 2017}},
		{d.GDPPerCapita, []float64{1, 2, 3, 4, 5, 6}},
		{d.ViolentCrimeRate, []float64{2, 4, 6, 8, 10, 100}},
		{d.PropertyCrimeRate, []float64{6, 5, 4, 3, 2, 1}},
		{d.Population, []float64{5, 5, 5, 5, 5, 5}},
		{"Label", []string{"p", "q", "r", "s", "t", "u"}},
	}

	var cs []*d.Column
	for _, c := range cols {
		col, e := d.NewCol(c.data, d.DTunknown, d.ColName(c.name))
		require.Nil(t, e)
		cs = append(cs, col)
	}

	tbl, e := d.NewTable(cs...)
	require.Nil(t, e)

	return tbl
}

func TestCorrelation(t *testing.T) {
	tbl := makeTable(t)

	c := Correlation(tbl, []string{d.GDPPerCapita}, Filters{})
	assert.Equal(t, []string{d.GDPPerCapita}, c.Variables)
	assert.Equal(t, 1.0, c.Get(d.GDPPerCapita, d.GDPPerCapita))

	c = Correlation(tbl, nil, Filters{})
	assert.Equal(t, DefaultVariables, c.Variables)
	assert.InDelta(t, -1.0, c.Get(d.GDPPerCapita, d.PropertyCrimeRate), 1e-12)
	assert.Equal(t, c.Get(d.GDPPerCapita, d.ViolentCrimeRate), c.Get(d.ViolentCrimeRate, d.GDPPerCapita))

	// constant population has no defined correlation
	assert.True(t, math.IsNaN(c.Get(d.Population, d.GDPPerCapita)))
	b, e := json.Marshal(c)
	assert.Nil(t, e)
	assert.Contains(t, string(b), `"Population":null`)

	c = Correlation(tbl, []string{d.GDPPerCapita, "Nope", "Label"}, Filters{States: []string{"A"}})
	assert.Equal(t, []string{d.GDPPerCapita, "Label"}, c.Variables)
	assert.NotContains(t, c.Matrix, "Label")
}

func TestDescribe(t *testing.T) {
	tbl := makeTable(t)

	s, e := Describe(tbl, d.GDPPerCapita, Filters{})
	assert.Nil(t, e)
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, Float(3.5), s.Mean)
	assert.Equal(t, Float(3.5), s.Median)
	assert.Equal(t, Float(2.25), s.Q25)
	assert.Equal(t, Float(4.75), s.Q75)
	assert.Equal(t, Float(1), s.Min)
	assert.Equal(t, Float(6), s.Max)
	assert.InDelta(t, math.Sqrt(3.5), float64(s.Std), 1e-12)

	s, e = Describe(tbl, d.GDPPerCapita, Filters{States: []string{"B"}, Years: []int{2016}})
	assert.Nil(t, e)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, Float(0), s.Std)
	assert.Equal(t, s.Min, s.Max)
	assert.Equal(t, s.Median, s.Mean)

	_, e = Describe(tbl, "Nope", Filters{})
	assert.ErrorIs(t, e, ErrVariableNotFound)

	_, e = Describe(tbl, "Label", Filters{})
	assert.ErrorIs(t, e, ErrNoData)
}

func TestTrend(t *testing.T) {
	tbl := makeTable(t)

	tr, e := Trend(tbl, d.GDPPerCapita, "")
	assert.Nil(t, e)
	assert.Equal(t, Increasing, tr.Trend)
	assert.Equal(t, []int{2015, 2016, 2017}, tr.Years)
	assert.Equal(t, []float64{2.5, 3.5, 4.5}, tr.Values)
	assert.InDelta(t, 1.0, float64(tr.Slope), 1e-9)
	assert.InDelta(t, 1.0, float64(tr.RSquared), 1e-9)
	assert.InDelta(t, 0.0, float64(tr.PValue), 1e-6)

	tr, e = Trend(tbl, d.PropertyCrimeRate, "A")
	assert.Nil(t, e)
	assert.Equal(t, Decreasing, tr.Trend)

	// flat line
	tr, e = Trend(tbl, d.Population, "")
	assert.Nil(t, e)
	assert.Equal(t, Decreasing, tr.Trend)
	assert.Equal(t, Float(0), tr.RSquared)
	assert.InDelta(t, 1.0, float64(tr.PValue), 1e-9)

	one := tbl.Filter(func(row int) bool { return row == 0 })
	_, e = Trend(one, d.GDPPerCapita, "")
	assert.ErrorIs(t, e, ErrInsufficientData)

	_, e = Trend(tbl, "Nope", "")
	assert.ErrorIs(t, e, ErrVariableNotFound)
}

func TestPValue(t *testing.T) {
	assert.Equal(t, 0.0, pValue(1, []float64{1, 2}))
	assert.Equal(t, 1.0, pValue(0, []float64{3, 3}))

	// r = 0.5 with 10 points: t = 1.633, 8 df
	assert.InDelta(t, 0.1411, pValue(0.5, make([]float64, 10)), 1e-3)
}

func TestOutliers(t *testing.T) {
	tbl := makeTable(t)

	out, e := Outliers(tbl, d.ViolentCrimeRate, "iqr", Filters{})
	assert.Nil(t, e)
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].State)
	assert.Equal(t, 2017, out[0].Year)
	assert.Equal(t, 100.0, out[0].Value)

	b, e := json.Marshal(out[0])
	assert.Nil(t, e)
	assert.JSONEq(t, `{"State_Name":"B","County_Clean":"Y","Year":2017,"Violent_Crime_Rate":100}`, string(b))

	// zero spread: nothing is an outlier
	out, e = Outliers(tbl, d.Population, "", Filters{})
	assert.Nil(t, e)
	assert.Empty(t, out)

	out, e = Outliers(tbl, "Nope", MethodIQR, Filters{})
	assert.Nil(t, e)
	assert.Empty(t, out)

	_, e = Outliers(tbl, d.ViolentCrimeRate, "zscore", Filters{})
	assert.ErrorIs(t, e, ErrUnknownMethod)
}

func TestQuantile(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, quantile(0.25, x))
	assert.Equal(t, 2.5, quantile(0.5, x))
	assert.Equal(t, 4.0, quantile(1, x))
	assert.True(t, math.IsNaN(quantile(0.5, nil)))

	// an exact index does not touch its infinite neighbour
	assert.Equal(t, 2.0, quantile(0.5, []float64{1, 2, math.Inf(1)}))
}

func TestOutliers_Infinite(t *testing.T) {
	cols := []struct {
		name string
		data any
	}{
		{d.StateName, []string{"A", "A", "A", "A", "A"}},
		{d.CountyClean, []string{"X", "Y", "X", "X", "X"}},
		{d.Year, []int{2015, 2016, 2017, 2018, 2019}},
		{d.ViolentCrimeRate, []float64{1, math.Inf(1), 2, 3, 4}},
	}

	var cs []*d.Column
	for _, c := range cols {
		col, e := d.NewCol(c.data, d.DTunknown, d.ColName(c.name))
		require.Nil(t, e)
		cs = append(cs, col)
	}

	tbl, e := d.NewTable(cs...)
	require.Nil(t, e)

	out, e := Outliers(tbl, d.ViolentCrimeRate, MethodIQR, Filters{})
	assert.Nil(t, e)
	require.Len(t, out, 1)
	assert.Equal(t, "Y", out[0].County)
	assert.True(t, math.IsInf(out[0].Value, 1))

	b, e := json.Marshal(out)
	assert.Nil(t, e)
	assert.JSONEq(t, `[{"State_Name":"A","County_Clean":"Y","Year":2016,"Violent_Crime_Rate":null}]`, string(b))
}

func TestFloat_JSON(t *testing.T) {
	b, e := json.Marshal([]Float{1.5, Float(math.NaN()), Float(math.Inf(1))})
	assert.Nil(t, e)
	assert.Equal(t, "[1.5,null,null]", string(b))
}
