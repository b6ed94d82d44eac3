package df

import "sort"

// Group is one distinct value of a grouping column and the rows that carry it.
type Group struct {
	Key  any
	Rows []int
}

// By partitions the rows of t on the values of key. Groups come back in ascending key order,
// rows within a group keep table order. Rows with a missing key are left out.
func (t *Table) By(key string) ([]Group, error) {
	col, e := t.Column(key)
	if e != nil {
		return nil, e
	}

	pos := make(map[any]int)
	var groups []Group
	for row := 0; row < col.Len(); row++ {
		if col.Missing(row) {
			continue
		}

		k := col.Element(row)
		ind, ok := pos[k]
		if !ok {
			ind = len(groups)
			pos[k] = ind
			groups = append(groups, Group{Key: k})
		}

		groups[ind].Rows = append(groups[ind].Rows, row)
	}

	sort.Slice(groups, func(i, j int) bool {
		return lessKey(groups[i].Key, groups[j].Key)
	})

	return groups, nil
}

func lessKey(a, b any) bool {
	switch x := a.(type) {
	case int:
		return x < b.(int)
	case float64:
		return x < b.(float64)
	default:
		return a.(string) < b.(string)
	}
}
