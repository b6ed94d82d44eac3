package df

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// All code interacting with files is here

const (
	Sep    = ','
	Header = true
)

// Files reads and writes delimited text with a header row.
type Files struct {
	Sep    rune
	Header bool

	// Numeric lists columns that are always parsed as float, whatever they hold.
	// Columns not listed are float if every non-empty value is a number, string otherwise.
	Numeric []string

	file     *os.File
	fileName string
}

func NewFiles(numeric ...string) *Files {
	return &Files{
		Sep:     Sep,
		Header:  Header,
		Numeric: numeric,
	}
}

func (f *Files) Open(fileName string) error {
	var e error
	f.fileName = fileName
	f.file, e = os.Open(fileName)

	return e
}

func (f *Files) Create(fileName string) error {
	var e error
	f.fileName = fileName
	f.file, e = os.Create(fileName)

	return e
}

func (f *Files) FileName() string {
	return f.fileName
}

func (f *Files) Close() error {
	if f.file != nil {
		return f.file.Close()
	}

	return fmt.Errorf("no open files")
}

// Load reads the open file into a table.
func (f *Files) Load() (*Table, error) {
	if f.file == nil {
		return nil, fmt.Errorf("no open files")
	}

	return f.Read(f.file)
}

// Read parses delimited text from r into a table. Short rows are padded with missing values.
func (f *Files) Read(r io.Reader) (*Table, error) {
	rdr := csv.NewReader(r)
	rdr.Comma = f.Sep
	rdr.FieldsPerRecord = -1

	header, e := rdr.Read()
	if e != nil {
		return nil, fmt.Errorf("read header: %w", e)
	}

	fieldNames := dedupe(header)
	raw := make([][]string, len(fieldNames))
	for line := 2; ; line++ {
		rec, e := rdr.Read()
		if e == io.EOF {
			break
		}

		if e != nil {
			return nil, fmt.Errorf("line %d: %w", line, e)
		}

		for ind := range fieldNames {
			var val string
			if ind < len(rec) {
				val = rec[ind]
			}

			raw[ind] = append(raw[ind], val)
		}
	}

	var cols []*Column
	for ind, name := range fieldNames {
		col, e := NewCol(f.vector(name, raw[ind]), DTunknown, ColName(name))
		if e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewTable(cols...)
}

func (f *Files) vector(name string, vals []string) *Vector {
	if vals == nil {
		vals = []string{}
	}

	if Has(name, f.Numeric) || numericStrings(vals) {
		x := make([]float64, len(vals))
		for ind, v := range vals {
			x[ind] = ParseNumber(v)
		}

		return &Vector{dt: DTfloat, data: x}
	}

	return &Vector{dt: DTstring, data: vals}
}

// Save writes t, header first, to the open file.
func (f *Files) Save(t *Table) error {
	if f.file == nil {
		return fmt.Errorf("no open files")
	}

	return f.Write(f.file, t)
}

// Write renders t as delimited text. Missing values are written as empty fields.
func (f *Files) Write(w io.Writer, t *Table) error {
	wtr := csv.NewWriter(w)
	wtr.Comma = f.Sep

	if f.Header {
		if e := wtr.Write(t.ColumnNames()); e != nil {
			return e
		}
	}

	cols := t.Columns()
	line := make([]string, len(cols))
	for row := 0; row < t.RowCount(); row++ {
		for ind, c := range cols {
			line[ind] = c.ElementString(row)
		}

		if e := wtr.Write(line); e != nil {
			return e
		}
	}

	wtr.Flush()

	return wtr.Error()
}

func numericStrings(vals []string) bool {
	seen := false
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			continue
		}

		if !IsNumber(v) {
			return false
		}

		seen = true
	}

	return seen
}

// dedupe trims the header and suffixes repeated names with .1, .2, ...
func dedupe(header []string) []string {
	out := make([]string, len(header))
	count := make(map[string]int)
	for ind, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", ind)
		}

		name := h
		if n := count[h]; n > 0 {
			name = fmt.Sprintf("%s.%d", h, n)
		}

		count[h]++
		out[ind] = name
	}

	return out
}
