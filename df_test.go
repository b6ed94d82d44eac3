package df

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTable(t *testing.T) *Table {
	x, e := NewCol([]float64{3, 1, math.NaN(), 2}, DTfloat, ColName("x"))
	require.Nil(t, e)
	s, e := NewCol([]string{"b", "a", "c", ""}, DTstring, ColName("s"))
	require.Nil(t, e)
	n, e := NewCol([]int{2020, 2019, 2020, 2021}, DTint, ColName("n"))
	require.Nil(t, e)

	tbl, e := NewTable(x, s, n)
	require.Nil(t, e)

	return tbl
}

func TestTable_Column(t *testing.T) {
	tbl := makeTable(t)
	assert.Equal(t, 4, tbl.RowCount())
	assert.Equal(t, 3, tbl.ColumnCount())
	assert.Equal(t, []string{"x", "s", "n"}, tbl.ColumnNames())

	c, e := tbl.Column("s")
	assert.Nil(t, e)
	assert.Equal(t, DTstring, c.DataType())

	_, e = tbl.Column("nope")
	assert.NotNil(t, e)
}

func TestTable_AppendColumn(t *testing.T) {
	tbl := makeTable(t)

	dup, _ := NewCol([]float64{1, 2, 3, 4}, DTfloat, ColName("x"))
	assert.NotNil(t, tbl.AppendColumn(dup))

	short, _ := NewCol([]float64{1}, DTfloat, ColName("short"))
	assert.NotNil(t, tbl.AppendColumn(short))

	_, e := NewCol([]float64{1}, DTfloat, ColName(""))
	assert.NotNil(t, e)

	_, e = NewCol([]bool{true}, DTunknown)
	assert.NotNil(t, e)
}

func TestTable_DropReplace(t *testing.T) {
	tbl := makeTable(t)
	assert.Nil(t, tbl.DropColumns("s"))
	assert.Equal(t, []string{"x", "n"}, tbl.ColumnNames())
	assert.NotNil(t, tbl.DropColumns("s"))

	c, _ := NewCol([]float64{9, 9, 9, 9}, DTfloat, ColName("n"))
	assert.Nil(t, tbl.ReplaceColumn(c))
	n, _ := tbl.Column("n")
	assert.Equal(t, DTfloat, n.DataType())
	assert.Equal(t, []string{"x", "n"}, tbl.ColumnNames())
}

func TestTable_CopyIsIndependent(t *testing.T) {
	tbl := makeTable(t)
	cp := tbl.Copy()

	c, _ := cp.Column("x")
	c.AsFloat()[0] = 100

	orig, _ := tbl.Column("x")
	assert.Equal(t, 3.0, orig.AsFloat()[0])
}

func TestTable_FilterWhere(t *testing.T) {
	tbl := makeTable(t)
	n, _ := tbl.Column("n")
	years := n.AsInt()

	out := tbl.Filter(func(row int) bool { return years[row] == 2020 })
	assert.Equal(t, 2, out.RowCount())
	s, _ := out.Column("s")
	assert.Equal(t, []string{"b", "c"}, s.AsString())

	assert.Equal(t, 0, tbl.Filter(func(int) bool { return false }).RowCount())
}

func TestTable_Sort(t *testing.T) {
	tbl := makeTable(t)

	out, e := tbl.Sort("x")
	assert.Nil(t, e)
	x, _ := out.Column("x")
	got := x.AsFloat()
	assert.Equal(t, []float64{1, 2, 3}, got[:3])
	assert.True(t, math.IsNaN(got[3]))

	out, e = tbl.Sort("n", "s")
	assert.Nil(t, e)
	s, _ := out.Column("s")
	assert.Equal(t, []string{"a", "b", "c", ""}, s.AsString())

	_, e = tbl.Sort("nope")
	assert.NotNil(t, e)
}

func TestTable_By(t *testing.T) {
	tbl := makeTable(t)

	groups, e := tbl.By("n")
	assert.Nil(t, e)
	assert.Len(t, groups, 3)
	assert.Equal(t, 2019, groups[0].Key)
	assert.Equal(t, []int{0, 2}, groups[1].Rows)

	// missing keys are skipped
	groups, e = tbl.By("s")
	assert.Nil(t, e)
	assert.Len(t, groups, 3)
	assert.Equal(t, "a", groups[0].Key)
}

func TestTable_Records(t *testing.T) {
	tbl := makeTable(t)
	recs := tbl.Records()
	assert.Len(t, recs, 4)
	assert.Equal(t, 3.0, recs[0]["x"])
	assert.Nil(t, recs[2]["x"])
	assert.Nil(t, recs[3]["s"])
	assert.Equal(t, 2021, recs[3]["n"])
}

func TestUniqueValues(t *testing.T) {
	tbl := makeTable(t)
	x, _ := tbl.Column("x")
	assert.Equal(t, []any{1.0, 2.0, 3.0}, x.UniqueValues())

	n, _ := tbl.Column("n")
	assert.Equal(t, []any{2019, 2020, 2021}, n.UniqueValues())

	empty, _ := NewCol([]string{"", ""}, DTstring, ColName("e"))
	assert.Equal(t, []any{}, empty.UniqueValues())
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 1.5, ParseNumber(" 1.5 "))
	assert.True(t, math.IsNaN(ParseNumber("")))
	assert.True(t, math.IsNaN(ParseNumber("n/a")))
	assert.False(t, IsNumber("abc"))
	assert.Equal(t, "", FormatNumber(math.NaN()))
	assert.Equal(t, "0.25", FormatNumber(0.25))
}

func TestFiles_Read(t *testing.T) {
	const data = "\ufeffname, x ,y,x\n" +
		"a,1,hello,7\n" +
		"b,,2,8\n" +
		"c,3\n"

	f := NewFiles("y")
	tbl, e := f.Read(strings.NewReader(data))
	assert.Nil(t, e)
	assert.Equal(t, []string{"name", "x", "y", "x.1"}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.RowCount())

	x, _ := tbl.Column("x")
	assert.Equal(t, DTfloat, x.DataType())
	assert.True(t, math.IsNaN(x.AsFloat()[1]))

	// declared numeric: the text value becomes missing
	y, _ := tbl.Column("y")
	assert.Equal(t, DTfloat, y.DataType())
	assert.True(t, math.IsNaN(y.AsFloat()[0]))
	assert.Equal(t, 2.0, y.AsFloat()[1])

	name, _ := tbl.Column("name")
	assert.Equal(t, DTstring, name.DataType())

	// short row padded
	x1, _ := tbl.Column("x.1")
	assert.True(t, math.IsNaN(x1.AsFloat()[2]))
}

func TestFiles_RoundTrip(t *testing.T) {
	tbl := makeTable(t)
	fileName := filepath.Join(t.TempDir(), "out.csv")

	f := NewFiles()
	assert.Nil(t, f.Create(fileName))
	assert.Nil(t, f.Save(tbl))
	assert.Nil(t, f.Close())

	g := NewFiles()
	assert.Nil(t, g.Open(fileName))
	back, e := g.Load()
	assert.Nil(t, e)
	assert.Nil(t, g.Close())
	assert.Equal(t, tbl.ColumnNames(), back.ColumnNames())
	assert.Equal(t, tbl.RowCount(), back.RowCount())

	raw, _ := os.ReadFile(fileName)
	assert.True(t, strings.HasPrefix(string(raw), "x,s,n\n3,b,2020\n"))

	var buf bytes.Buffer
	assert.Nil(t, NewFiles().Write(&buf, tbl))
	assert.Equal(t, string(raw), buf.String())
}

func TestDialect(t *testing.T) {
	assert.True(t, IsDSN("clickhouse://localhost:9000/default"))
	assert.True(t, IsDSN("postgres://u:p@localhost/db"))
	assert.False(t, IsDSN("data/merged.csv"))

	_, e := NewDialect("oracle", nil)
	assert.NotNil(t, e)
}

// TestDialect_Load runs against a live database when CRIMEDF_TEST_DSN and CRIMEDF_TEST_QUERY are set.
func TestDialect_Load(t *testing.T) {
	dsn, qry := os.Getenv("CRIMEDF_TEST_DSN"), os.Getenv("CRIMEDF_TEST_QUERY")
	if dsn == "" || qry == "" {
		t.Skip("CRIMEDF_TEST_DSN / CRIMEDF_TEST_QUERY not set")
	}

	dlct, e := Connect(t.Context(), dsn)
	require.Nil(t, e)
	defer func() { _ = dlct.Close() }()

	tbl, e := dlct.Load(t.Context(), qry)
	assert.Nil(t, e)
	assert.Greater(t, tbl.ColumnCount(), 0)
}
