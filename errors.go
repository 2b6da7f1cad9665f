package keyset

import "errors"

var (
	// ErrInvalidCursor marks a malformed or mismatched cursor token. The
	// token is client-supplied input, so treat this as a client error.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrUnsupportedOrdering marks an ordering the pager cannot paginate:
	// empty, relational lookups or forbidden column names. This is a
	// configuration problem, not a client error.
	ErrUnsupportedOrdering = errors.New("unsupported ordering")
)

// CursorError wraps a cursor decode failure with a user-facing message,
// keeping the diagnostic cause reachable via errors.Is/As.
type CursorError struct {
	message string
	err     error
}

// Error returns the user-facing message, not the underlying cause. The
// cause may echo token internals that should not leak to API clients.
func (e *CursorError) Error() string {
	return e.message
}

func (e *CursorError) Unwrap() error {
	return e.err
}
