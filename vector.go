package df

import (
	"fmt"
	"math"
)

// Vector is the typed storage behind a Column. Missing floats are NaN, missing strings are "".
// Integer vectors have no missing values.
type Vector struct {
	dt DataTypes

	data any
}

func NewVector(data any, dt DataTypes) (*Vector, error) {
	if dt == DTunknown {
		dt = WhatAmI(data)
	}

	switch dt {
	case DTfloat:
		if x, ok := data.([]float64); ok {
			return &Vector{dt: dt, data: x}, nil
		}
	case DTint:
		if x, ok := data.([]int); ok {
			return &Vector{dt: dt, data: x}, nil
		}
	case DTstring:
		if x, ok := data.([]string); ok {
			return &Vector{dt: dt, data: x}, nil
		}
	}

	return nil, fmt.Errorf("cannot make vector of type %s from %T", dt, data)
}

func MakeVector(dt DataTypes, n int) *Vector {
	switch dt {
	case DTfloat:
		return &Vector{dt: dt, data: make([]float64, n)}
	case DTint:
		return &Vector{dt: dt, data: make([]int, n)}
	case DTstring:
		return &Vector{dt: dt, data: make([]string, n)}
	default:
		panic(fmt.Errorf("cannot make Vector with data type %s", dt))
	}
}

func (v *Vector) VectorType() DataTypes {
	return v.dt
}

func (v *Vector) Len() int {
	switch v.dt {
	case DTfloat:
		return len(v.data.([]float64))
	case DTint:
		return len(v.data.([]int))
	case DTstring:
		return len(v.data.([]string))
	default:
		return 0
	}
}

func (v *Vector) AsAny() any {
	return v.data
}

// AsFloat returns the data as float64. Strings are parsed with ParseNumber, so
// unparsable entries come back as NaN. The returned slice is shared for DTfloat.
func (v *Vector) AsFloat() []float64 {
	switch v.dt {
	case DTfloat:
		return v.data.([]float64)
	case DTint:
		xOut := make([]float64, v.Len())
		for ind, xx := range v.data.([]int) {
			xOut[ind] = float64(xx)
		}

		return xOut
	default:
		xOut := make([]float64, v.Len())
		for ind, xx := range v.data.([]string) {
			xOut[ind] = ParseNumber(xx)
		}

		return xOut
	}
}

// AsInt returns the data as int. Missing floats become 0.
func (v *Vector) AsInt() []int {
	switch v.dt {
	case DTint:
		return v.data.([]int)
	default:
		xOut := make([]int, v.Len())
		for ind, xx := range v.AsFloat() {
			if !math.IsNaN(xx) {
				xOut[ind] = int(xx)
			}
		}

		return xOut
	}
}

func (v *Vector) AsString() []string {
	if v.dt == DTstring {
		return v.data.([]string)
	}

	xOut := make([]string, v.Len())
	for ind := 0; ind < v.Len(); ind++ {
		xOut[ind] = v.ElementString(ind)
	}

	return xOut
}

func (v *Vector) Element(indx int) any {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	switch v.dt {
	case DTfloat:
		return v.data.([]float64)[indx]
	case DTint:
		return v.data.([]int)[indx]
	default:
		return v.data.([]string)[indx]
	}
}

func (v *Vector) ElementFloat(indx int) float64 {
	switch v.dt {
	case DTfloat:
		return v.data.([]float64)[indx]
	case DTint:
		return float64(v.data.([]int)[indx])
	default:
		return ParseNumber(v.data.([]string)[indx])
	}
}

func (v *Vector) ElementString(indx int) string {
	switch v.dt {
	case DTstring:
		return v.data.([]string)[indx]
	case DTint:
		return FormatNumber(float64(v.data.([]int)[indx]))
	default:
		return FormatNumber(v.data.([]float64)[indx])
	}
}

// Missing reports whether element indx is missing.
func (v *Vector) Missing(indx int) bool {
	switch v.dt {
	case DTfloat:
		return math.IsNaN(v.data.([]float64)[indx])
	case DTstring:
		return v.data.([]string)[indx] == ""
	default:
		return false
	}
}

func (v *Vector) Copy() *Vector {
	n := v.Len()
	switch v.dt {
	case DTfloat:
		x := make([]float64, n)
		copy(x, v.data.([]float64))
		return &Vector{dt: v.dt, data: x}
	case DTint:
		x := make([]int, n)
		copy(x, v.data.([]int))
		return &Vector{dt: v.dt, data: x}
	default:
		x := make([]string, n)
		copy(x, v.data.([]string))
		return &Vector{dt: v.dt, data: x}
	}
}

// Where returns a new vector holding the elements at rows, in that order.
func (v *Vector) Where(rows []int) *Vector {
	switch v.dt {
	case DTfloat:
		return &Vector{dt: v.dt, data: pick(v.data.([]float64), rows)}
	case DTint:
		return &Vector{dt: v.dt, data: pick(v.data.([]int), rows)}
	default:
		return &Vector{dt: v.dt, data: pick(v.data.([]string), rows)}
	}
}

// Less compares elements i and j. Missing values sort last.
func (v *Vector) Less(i, j int) bool {
	switch v.dt {
	case DTfloat:
		x := v.data.([]float64)
		if math.IsNaN(x[i]) {
			return false
		}

		return math.IsNaN(x[j]) || x[i] < x[j]
	case DTint:
		x := v.data.([]int)
		return x[i] < x[j]
	default:
		x := v.data.([]string)
		return x[i] < x[j]
	}
}

func pick[T FrameTypes](x []T, rows []int) []T {
	out := make([]T, len(rows))
	for ind, r := range rows {
		out[ind] = x[r]
	}

	return out
}
