package filter

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
		{d.StateName, []string{"A", "A", "B", "B", "C"}},
		{d.CountyClean, []string{"X", "Y", "Z", "X", "V"}},
		{d.Year, []int{2019, 2020, 2019, 2020, 2021}},
		{d.GDPPerCapita, []float64{10, 20, 30, math.NaN(), 50}},
		{d.Population, []float64{100, 200, 300, 400, 500}},
		{d.ViolentCrimeRate, []float64{1, 2, 3, 4, 5}},
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

func TestApply_Identity(t *testing.T) {
	tbl := makeTable(t)
	out := Apply(tbl, Predicates{})
	assert.Equal(t, tbl.RowCount(), out.RowCount())
	assert.Equal(t, tbl.ColumnNames(), out.ColumnNames())
	assert.Equal(t, tbl.Records(), out.Records())
}

func TestApply_Years(t *testing.T) {
	tbl := makeTable(t)
	out := Apply(tbl, Predicates{Years: []int{2019}})
	assert.Equal(t, 2, out.RowCount())

	yr, _ := out.Column(d.Year)
	for _, y := range yr.AsInt() {
		assert.Equal(t, 2019, y)
	}
}

func TestApply_Conjunction(t *testing.T) {
	tbl := makeTable(t)
	out := Apply(tbl, Predicates{
		States:     []string{"A", "B"},
		Counties:   []string{"X"},
		Population: Between(50, 400),
	})

	assert.Equal(t, 2, out.RowCount())
	st, _ := out.Column(d.StateName)
	assert.Equal(t, []string{"A", "B"}, st.AsString())

	// no state matches
	assert.Equal(t, 0, Apply(tbl, Predicates{States: []string{"Q"}}).RowCount())
}

func TestApply_Ranges(t *testing.T) {
	tbl := makeTable(t)
	lo := 20.0

	// inclusive, and a missing value never passes an active bound
	out := Apply(tbl, Predicates{GDPPerCapita: Range{Min: &lo}})
	g, _ := out.Column(d.GDPPerCapita)
	assert.Equal(t, []float64{20, 30, 50}, g.AsFloat())

	out = Apply(tbl, Predicates{Metrics: map[string]Range{
		d.ViolentCrimeRate: Between(2, 3),
		"Not_A_Column":     Between(0, 0),
	}})
	assert.Equal(t, 2, out.RowCount())
}

func TestApply_Soundness(t *testing.T) {
	tbl := makeTable(t)
	p := Predicates{States: []string{"A", "B"}, Years: []int{2020}, ViolentCrimeRate: Between(0, 10)}
	out := Apply(tbl, p)

	st, _ := out.Column(d.StateName)
	yr, _ := out.Column(d.Year)
	vcr, _ := out.Column(d.ViolentCrimeRate)
	for row := 0; row < out.RowCount(); row++ {
		assert.Contains(t, p.States, st.AsString()[row])
		assert.Contains(t, p.Years, yr.AsInt()[row])
		assert.True(t, p.ViolentCrimeRate.Contains(vcr.AsFloat()[row]))
	}

	assert.Equal(t, 2, out.RowCount())
}

func TestPredicates_JSON(t *testing.T) {
	var p Predicates
	body := `{"states":["A"],"years":[2019,2020],"metric_filters":{"Population":{"min":150}}}`
	assert.Nil(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, []string{"A"}, p.States)
	assert.True(t, p.Metrics[d.Population].Active())
	assert.Nil(t, p.Metrics[d.Population].Max)

	out := Apply(makeTable(t), p)
	assert.Equal(t, 1, out.RowCount())
}

func TestCountiesByState(t *testing.T) {
	tbl := makeTable(t)
	assert.Equal(t, []string{"X", "Z"}, CountiesByState(tbl, "B"))
	assert.Equal(t, []string{}, CountiesByState(tbl, "Q"))
}
