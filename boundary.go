package keyset

import (
	"fmt"

	"github.com/samber/lo"
)

// boundaryExpression builds the filter selecting rows strictly beyond the
// given position in the traversal direction. For ordering
// (f1 d1, ..., fn dn) and position values (v1, ..., vn) it is the
// lexicographic comparison expanded into DNF:
//
//	(f1 CMP1 v1) OR (f1 = v1 AND f2 CMP2 v2) OR ... OR
//	(f1 = v1 AND ... AND f(n-1) = v(n-1) AND fn CMPn vn)
//
// where CMPi is "<" when (di descending) XOR reversed, else ">".
//
// When tupleCompare is requested and every direction agrees, the same
// boundary is emitted as a single row-value comparison
// "(f1, ..., fn) CMP (v1, ..., vn)". Mixed-direction orderings silently
// fall back to the DNF form: a row-value comparison cannot express them.
func boundaryExpression(
	ordering Orderings,
	values []string,
	reversed bool,
	kinds ColumnKinds,
	tupleCompare bool,
) (Expression, error) {
	if len(values) != len(ordering) {
		return nil, fmt.Errorf(
			"%w: position holds %d values, ordering has %d fields",
			ErrInvalidCursor, len(values), len(ordering),
		)
	}

	typed := make([]any, 0, len(values))
	for i, value := range values {
		parsed, err := kinds.kindOf(ordering[i].Column).parse(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
		}

		typed = append(typed, parsed)
	}

	if tupleCompare && ordering.uniform() {
		return tTupleCmp{
			Columns: ordering.columns(),
			Values:  typed,
			// Uniform ordering: every field shares one comparator.
			Operator: comparatorFor(ordering[0].Direction, reversed),
		}, nil
	}

	dnf := make(tDNF, 0, len(ordering))
	for i := range ordering {
		prefixEqualities := lo.Map(ordering[:i], func(orderBy OrderBy, j int) tConjunct {
			return tConjunct{
				Column:   orderBy.Column,
				Value:    typed[j],
				Operator: operatorEq,
			}
		})

		disjunct := make(tDisjunct, 0, len(prefixEqualities)+1)
		disjunct = append(disjunct, prefixEqualities...)
		disjunct = append(disjunct, tConjunct{
			Column:   ordering[i].Column,
			Value:    typed[i],
			Operator: comparatorFor(ordering[i].Direction, reversed),
		})

		dnf = append(dnf, disjunct)
	}

	return dnf, nil
}
