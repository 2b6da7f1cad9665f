package keyset

// Source is the ordered-scan capability the pager requires from a data
// source. Implementations must return stably ordered results and evaluate
// conjunctions/disjunctions of simple field comparisons; no further query
// planning is expected from them.
//
// Order and Where return derived handles and must not mutate the
// receiver, so one Source can serve concurrent page requests.
type Source[T any] interface {
	// Order returns a handle scanning in the given field/direction tuple.
	Order(ordering Orderings) Source[T]
	// Where returns a handle with the expression added as a filter.
	Where(expr Expression) Source[T]
	// Slice materializes rows [start, end) of the ordered, filtered scan.
	Slice(start, end int) ([]T, error)
	// UniqueKeyColumn names the column guaranteed unique across the
	// dataset (a primary-key equivalent).
	UniqueKeyColumn() string
	// FieldValue reads a row's value for an ordering column.
	FieldValue(row T, column string) (any, error)
}

// OrderingProvider supplies ordering field specs for a page request. Use
// it when the ordering is decided per request (e.g. by a query filter)
// rather than fixed on the pager.
type OrderingProvider func() []string
