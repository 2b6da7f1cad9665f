package keyset

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// memSource is an in-memory Source used to exercise the full windowing
// behavior without a database. It evaluates boundary expressions the
// straightforward way, which makes it a reference implementation to
// compare the SQL-shaped filters against.
type memSource[T any] struct {
	rows      []T
	uniqueKey string
	getters   Getters[T]
	ordering  Orderings
	filters   []Expression
}

func newMemSource[T any](rows []T, uniqueKey string, getters Getters[T]) *memSource[T] {
	return &memSource[T]{
		rows:      rows,
		uniqueKey: uniqueKey,
		getters:   getters,
	}
}

func (s *memSource[T]) Order(ordering Orderings) Source[T] {
	c := *s
	c.ordering = ordering
	return &c
}

func (s *memSource[T]) Where(expr Expression) Source[T] {
	c := *s
	c.filters = append(slices.Clone(s.filters), expr)
	return &c
}

func (s *memSource[T]) Slice(start, end int) ([]T, error) {
	out := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		keep := true
		for _, f := range s.filters {
			if !s.matches(f, row) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return s.less(out[i], out[j])
	})

	if start > len(out) {
		start = len(out)
	}
	if end > len(out) {
		end = len(out)
	}

	return slices.Clone(out[start:end]), nil
}

func (s *memSource[T]) UniqueKeyColumn() string {
	return s.uniqueKey
}

func (s *memSource[T]) FieldValue(row T, column string) (any, error) {
	getter, ok := s.getters[column]
	if !ok {
		return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", column)
	}

	return getter(row), nil
}

func (s *memSource[T]) less(a, b T) bool {
	for _, orderBy := range s.ordering {
		av := s.getters[orderBy.Column](a)
		bv := s.getters[orderBy.Column](b)

		c := compareValues(av, bv)
		if c == 0 {
			continue
		}
		if orderBy.Direction == DirectionDESC {
			return c > 0
		}

		return c < 0
	}

	return false
}

func (s *memSource[T]) matches(expr Expression, row T) bool {
	get := func(column string) any {
		return s.getters[column](row)
	}

	switch e := expr.(type) {
	case tDNF:
		for _, disjunct := range e {
			all := true
			for _, conjunct := range disjunct {
				if !holds(conjunct.Operator, compareValues(get(conjunct.Column), conjunct.Value)) {
					all = false
					break
				}
			}
			if all {
				return true
			}
		}

		return false
	case tTupleCmp:
		c := 0
		for i, column := range e.Columns {
			c = compareValues(get(column), e.Values[i])
			if c != 0 {
				break
			}
		}

		return holds(e.Operator, c)
	default:
		panic(fmt.Errorf("unexpected expression type %T", expr))
	}
}

func holds(op Operator, cmp int) bool {
	switch op {
	case OperatorGT:
		return cmp > 0
	case OperatorLT:
		return cmp < 0
	case operatorEq:
		return cmp == 0
	default:
		panic(fmt.Errorf("unexpected operator '%s'", op))
	}
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case time.Time:
		return av.Compare(b.(time.Time))
	default:
		panic(fmt.Errorf("unexpected value type %T", a))
	}
}
