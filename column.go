package df

import "fmt"

// Column is a named Vector.
type Column struct {
	*Vector

	name string
}

type ColOpt func(c *Column) error

func ColName(name string) ColOpt {
	return func(c *Column) error {
		if c == nil {
			return fmt.Errorf("nil column to ColName")
		}

		if e := validName(name); e != nil {
			return e
		}

		c.name = name

		return nil
	}
}

// NewCol makes a column from a *Vector or a slice of one of the supported types.
func NewCol(data any, dt DataTypes, opts ...ColOpt) (*Column, error) {
	var (
		v  *Vector
		ok bool
		e  error
	)

	if v, ok = data.(*Vector); !ok {
		if v, e = NewVector(data, dt); e != nil {
			return nil, e
		}
	}

	col := &Column{Vector: v}
	for _, opt := range opts {
		if e := opt(col); e != nil {
			return nil, e
		}
	}

	return col, nil
}

func (c *Column) Name() string {
	return c.name
}

func (c *Column) DataType() DataTypes {
	return c.VectorType()
}

func (c *Column) Data() *Vector {
	return c.Vector
}

func (c *Column) Copy() *Column {
	return &Column{Vector: c.Vector.Copy(), name: c.name}
}

func (c *Column) Where(rows []int) *Column {
	return &Column{Vector: c.Vector.Where(rows), name: c.name}
}

func (c *Column) String() string {
	return fmt.Sprintf("column: %s\ntype: %s\nrows: %d", c.Name(), c.DataType(), c.Len())
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("empty column name")
	}

	return nil
}
