package df

import (
	"fmt"
	"sort"
)

type FrameTypes interface {
	float64 | int | string
}

func WhatAmI(val any) DataTypes {
	switch val.(type) {
	case float64, []float64:
		return DTfloat
	case int, []int:
		return DTint
	case string, []string:
		return DTstring
	default:
		return DTunknown
	}
}

// Has reports whether needle is in haystack.
func Has[C comparable](needle C, haystack []C) bool {
	return Position(needle, haystack) >= 0
}

func Position[C comparable](needle C, haystack []C) int {
	for ind, straw := range haystack {
		if needle == straw {
			return ind
		}
	}

	return -1
}

// Set builds a lookup set from x. A nil set means "no restriction".
func Set[C comparable](x []C) map[C]struct{} {
	if len(x) == 0 {
		return nil
	}

	s := make(map[C]struct{}, len(x))
	for _, xv := range x {
		s[xv] = struct{}{}
	}

	return s
}

// Unique returns the sorted distinct values of x.
func Unique[T int | float64 | string](x []T) []T {
	seen := make(map[T]struct{}, len(x))
	var out []T
	for _, xv := range x {
		if _, ok := seen[xv]; ok {
			continue
		}

		seen[xv] = struct{}{}
		out = append(out, xv)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// UniqueValues returns the sorted, non-missing distinct values of the column.
func (c *Column) UniqueValues() []any {
	var out []any
	switch c.DataType() {
	case DTint:
		for _, x := range Unique(c.AsInt()) {
			out = append(out, x)
		}
	case DTfloat:
		var present []float64
		for _, x := range c.AsFloat() {
			if !IsMissing(x) {
				present = append(present, x)
			}
		}

		for _, x := range Unique(present) {
			out = append(out, x)
		}
	case DTstring:
		var present []string
		for _, x := range c.AsString() {
			if x != "" {
				present = append(present, x)
			}
		}

		for _, x := range Unique(present) {
			out = append(out, x)
		}
	default:
		panic(fmt.Errorf("unsupported data type in UniqueValues"))
	}

	if out == nil {
		return []any{}
	}

	return out
}
