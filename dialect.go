package df

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/jackc/pgx/stdlib"
)

// All code interacting with a database is here

const (
	ch = "clickhouse"
	pg = "postgres"
)

// Dialect wraps a database connection the canonical table can be loaded from.
type Dialect struct {
	db      *sql.DB
	dialect string
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	dialect = strings.ToLower(dialect)
	if dialect != ch && dialect != pg {
		return nil, fmt.Errorf("unsupported database %s", dialect)
	}

	if db == nil {
		return nil, fmt.Errorf("nil *sql.DB in NewDialect")
	}

	return &Dialect{db: db, dialect: dialect}, nil
}

// IsDSN reports whether source names a database rather than a file.
func IsDSN(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "clickhouse://") || strings.HasPrefix(s, "postgres://") ||
		strings.HasPrefix(s, "postgresql://")
}

// Connect opens a Dialect from a clickhouse:// or postgres:// DSN.
func Connect(ctx context.Context, dsn string) (*Dialect, error) {
	var (
		db      *sql.DB
		dialect string
	)

	switch s := strings.ToLower(dsn); {
	case strings.HasPrefix(s, "clickhouse://"):
		opts, e := clickhouse.ParseDSN(dsn)
		if e != nil {
			return nil, fmt.Errorf("parse clickhouse dsn: %w", e)
		}

		if opts.DialTimeout == 0 {
			opts.DialTimeout = 300 * time.Second
		}

		if opts.Compression == nil {
			opts.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
		}

		db, dialect = clickhouse.OpenDB(opts), ch
	case strings.HasPrefix(s, "postgres://"), strings.HasPrefix(s, "postgresql://"):
		var e error
		if db, e = sql.Open("pgx", dsn); e != nil {
			return nil, e
		}

		dialect = pg
	default:
		return nil, fmt.Errorf("unsupported dsn %s", dsn)
	}

	if e := db.PingContext(ctx); e != nil {
		_ = db.Close()
		return nil, e
	}

	return NewDialect(dialect, db)
}

func (d *Dialect) DB() *sql.DB {
	return d.db
}

func (d *Dialect) DialectName() string {
	return d.dialect
}

func (d *Dialect) Close() error {
	return d.db.Close()
}

// Load runs qry and returns the result as a table. Columns whose values are all numeric (or NULL)
// become float columns, everything else is rendered as strings; NULL is missing either way.
func (d *Dialect) Load(ctx context.Context, qry string) (*Table, error) {
	rows, e := d.db.QueryContext(ctx, qry)
	if e != nil {
		return nil, e
	}
	defer func() { _ = rows.Close() }()

	fieldNames, e := rows.Columns()
	if e != nil {
		return nil, e
	}

	data := make([][]any, len(fieldNames))
	row2Read := make([]any, len(fieldNames))
	for ind := range row2Read {
		var x any
		row2Read[ind] = &x
	}

	for rows.Next() {
		if e := rows.Scan(row2Read...); e != nil {
			return nil, e
		}

		for ind := range fieldNames {
			data[ind] = append(data[ind], *row2Read[ind].(*any))
		}
	}

	if e := rows.Err(); e != nil {
		return nil, e
	}

	var cols []*Column
	for ind, name := range dedupe(fieldNames) {
		col, e := NewCol(dbVector(data[ind]), DTunknown, ColName(name))
		if e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewTable(cols...)
}

func dbVector(vals []any) *Vector {
	numeric := true
	flts := make([]float64, len(vals))
	for ind, v := range vals {
		f, ok := dbFloat(v)
		if !ok {
			numeric = false
			break
		}

		flts[ind] = f
	}

	if numeric {
		return &Vector{dt: DTfloat, data: flts}
	}

	strs := make([]string, len(vals))
	for ind, v := range vals {
		strs[ind] = dbString(v)
	}

	return &Vector{dt: DTstring, data: strs}
}

func dbFloat(x any) (float64, bool) {
	if x == nil {
		return ParseNumber(""), true
	}

	xv := reflect.Indirect(reflect.ValueOf(x))
	switch {
	case xv.CanFloat():
		return xv.Float(), true
	case xv.CanInt():
		return float64(xv.Int()), true
	case xv.CanUint():
		return float64(xv.Uint()), true
	}

	return 0, false
}

func dbString(x any) string {
	switch v := x.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02")
	}

	if f, ok := dbFloat(x); ok {
		return FormatNumber(f)
	}

	return fmt.Sprintf("%v", x)
}
