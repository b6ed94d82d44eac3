// Package loader builds the canonical county table: read once, coerce, drop incomplete rows.
package loader

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"
	"sync"

	d "github.com/invertedv/crimedf"
	"github.com/sirupsen/logrus"
)

// ErrDataNotFound means the source file does not exist. Nothing can be served without it.
var ErrDataNotFound = errors.New("data file not found")

// Source says where the canonical table comes from. Path is a CSV file or a database DSN;
// Query is required for a DSN and ignored for a file.
type Source struct {
	Path  string
	Query string
}

// Load reads src and returns the cleaned table.
func Load(ctx context.Context, src Source, log logrus.FieldLogger) (*d.Table, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var (
		raw *d.Table
		e   error
	)

	if d.IsDSN(src.Path) {
		raw, e = loadDB(ctx, src)
	} else {
		raw, e = loadFile(src.Path)
	}

	if e != nil {
		return nil, e
	}

	t, dropped, e := Clean(raw)
	if e != nil {
		return nil, e
	}

	log.WithFields(logrus.Fields{
		"source":  redact(src.Path),
		"rows":    t.RowCount(),
		"dropped": dropped,
		"columns": t.ColumnCount(),
	}).Info("data loaded")

	return t, nil
}

func loadFile(path string) (*d.Table, error) {
	if _, e := os.Stat(path); e != nil {
		if errors.Is(e, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDataNotFound, path)
		}

		return nil, e
	}

	f := d.NewFiles(d.NumericColumns...)
	if e := f.Open(path); e != nil {
		return nil, e
	}
	defer func() { _ = f.Close() }()

	t, e := f.Load()
	if e != nil {
		return nil, fmt.Errorf("parse %s: %w", path, e)
	}

	return t, nil
}

func loadDB(ctx context.Context, src Source) (*d.Table, error) {
	if src.Query == "" {
		return nil, fmt.Errorf("a query is required for database source %s", redact(src.Path))
	}

	dlct, e := d.Connect(ctx, src.Path)
	if e != nil {
		return nil, e
	}
	defer func() { _ = dlct.Close() }()

	return dlct.Load(ctx, src.Query)
}

// naTokens are read as missing in the key columns.
var naTokens = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan", "1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

func blankNA(x []string) []string {
	out := make([]string, len(x))
	for ind, s := range x {
		if !d.Has(strings.TrimSpace(s), naTokens) {
			out[ind] = s
		}
	}

	return out
}

// Clean coerces the declared numeric columns, drops rows missing a key column and returns the
// result with the number of rows dropped. Rows whose Year is not a whole number are dropped too,
// and Year comes back as an integer column.
func Clean(raw *d.Table) (*d.Table, int, error) {
	for _, key := range d.KeyColumns {
		if !raw.HasColumn(key) {
			return nil, 0, fmt.Errorf("required column %s not found", key)
		}
	}

	var cols []*d.Column
	for _, col := range raw.Columns() {
		var (
			c *d.Column
			e error
		)

		switch {
		case d.Has(col.Name(), d.NumericColumns):
			c, e = d.NewCol(col.AsFloat(), d.DTfloat, d.ColName(col.Name()))
		case col.Name() == d.StateName || col.Name() == d.CountyClean:
			c, e = d.NewCol(blankNA(col.AsString()), d.DTstring, d.ColName(col.Name()))
		default:
			c = col
		}

		if e != nil {
			return nil, 0, e
		}

		cols = append(cols, c)
	}

	t, e := d.NewTable(cols...)
	if e != nil {
		return nil, 0, e
	}

	state, _ := t.Column(d.StateName)
	county, _ := t.Column(d.CountyClean)
	year, _ := t.Column(d.Year)
	years := year.AsFloat()

	clean := t.Filter(func(row int) bool {
		y := years[row]
		return !state.Missing(row) && !county.Missing(row) && !math.IsInf(y, 0) && y == math.Trunc(y)
	})

	yr, _ := clean.Column(d.Year)
	yrInt, _ := d.NewCol(yr.AsInt(), d.DTint, d.ColName(d.Year))
	if e := clean.ReplaceColumn(yrInt); e != nil {
		return nil, 0, e
	}

	return clean, t.RowCount() - clean.RowCount(), nil
}

// Store holds the canonical table. It is loaded once, on Init or on first use, and never changes.
type Store struct {
	src Source
	log logrus.FieldLogger

	once  sync.Once
	table *d.Table
	err   error
}

func NewStore(src Source, log logrus.FieldLogger) *Store {
	return &Store{src: src, log: log}
}

// FromTable wraps an already loaded table.
func FromTable(t *d.Table) *Store {
	s := &Store{table: t}
	s.once.Do(func() {})

	return s
}

// Init loads the table if that has not happened yet.
func (s *Store) Init(ctx context.Context) error {
	s.once.Do(func() {
		s.table, s.err = Load(ctx, s.src, s.log)
	})

	return s.err
}

// Canonical returns the shared table. Callers must treat it as read-only.
func (s *Store) Canonical(ctx context.Context) (*d.Table, error) {
	if e := s.Init(ctx); e != nil {
		return nil, e
	}

	return s.table, nil
}

// Table returns an independent copy of the canonical table.
func (s *Store) Table(ctx context.Context) (*d.Table, error) {
	t, e := s.Canonical(ctx)
	if e != nil {
		return nil, e
	}

	return t.Copy(), nil
}

// redact hides credentials in a DSN.
func redact(path string) string {
	if !d.IsDSN(path) {
		return path
	}

	u, e := url.Parse(path)
	if e != nil {
		return "<dsn>"
	}

	return u.Redacted()
}
