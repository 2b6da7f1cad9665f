package keyset

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
)

// DefaultCursorQueryParam names the request query parameter holding the
// cursor token unless overridden via WithCursorQueryParam.
const DefaultCursorQueryParam = "cursor"

// DefaultInvalidCursorMessage is the user-facing text attached to cursor
// decode failures unless overridden via WithInvalidCursorMessage.
const DefaultInvalidCursorMessage = "Invalid cursor."

// RawPageRequest is intended for API payloads. For proper code generation,
// inline it:
//
//	type MyFilter struct {
//	    Paging RawPageRequest `json:",inline"`
//	}
type RawPageRequest struct {
	// PageSize - maximum number of records to return in the response.
	PageSize int `json:"pageSize"`
	// Cursor - token obtained from Page.NextToken or Page.PreviousToken.
	// If empty, the first page with PageSize records is returned.
	Cursor string `json:"cursor"`
}

// Pager drives keyset pagination over a Source. Configure it once with
// the With* builder methods; Paginate does not mutate the pager, so a
// configured pager is safe for concurrent page requests.
type Pager[T any] struct {
	pageSize             int
	offsetCutoff         int
	tupleComparison      bool
	ordering             []string
	orderingProvider     OrderingProvider
	kinds                ColumnKinds
	cursorQueryParam     string
	invalidCursorMessage string
}

func NewPager[T any]() *Pager[T] {
	return new(Pager[T])
}

// WithPageSize sets the maximum number of returned records. Values above
// MaxPageSize are clamped; zero or negative disables pagination and makes
// Paginate return a nil page.
func (p *Pager[T]) WithPageSize(size int) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.pageSize = NormalizePageSize(size)

	return p
}

// WithOffsetCutoff bounds the offset accepted from incoming tokens.
// Larger offsets are clamped, never rejected.
func (p *Pager[T]) WithOffsetCutoff(cutoff int) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.offsetCutoff = cutoff

	return p
}

// WithTupleComparison enables the row-value boundary rewrite
// "(f1, ..., fn) CMP (v1, ..., vn)" for uniform orderings.
//
// IMPORTANT:
// The store must support row-value comparison with lexicographic
// semantics over the ordered field types. Mixed-direction orderings fall
// back to the disjunctive form regardless of this setting.
func (p *Pager[T]) WithTupleComparison() *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.tupleComparison = true

	return p
}

// WithOrdering sets the ordering field specs in request notation:
// "name" ascending, "-name" descending. Resets previously set specs.
// The source's unique key is appended automatically during resolution
// unless one of the specs already names it.
func (p *Pager[T]) WithOrdering(specs ...string) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.ordering = slices.Clone(specs)

	return p
}

// WithOrderingProvider sets a callback supplying ordering specs per page
// request. Takes precedence over WithOrdering.
func (p *Pager[T]) WithOrderingProvider(provider OrderingProvider) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.orderingProvider = provider

	return p
}

// WithColumnKind declares the value kind of an ordering column, defining
// the lossless string round-trip of its position values. Columns without
// a declared kind compare as text.
func (p *Pager[T]) WithColumnKind(column string, kind ValueKind) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	if p.kinds == nil {
		p.kinds = make(ColumnKinds)
	}
	p.kinds[column] = kind

	return p
}

// WithCursorQueryParam sets the request query parameter PaginateRequest
// reads the token from.
func (p *Pager[T]) WithCursorQueryParam(name string) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.cursorQueryParam = name

	return p
}

// WithInvalidCursorMessage sets the user-facing message carried by errors
// on malformed tokens.
func (p *Pager[T]) WithInvalidCursorMessage(message string) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.invalidCursorMessage = message

	return p
}

// GetPageSize returns the normalized page size stored in the pager.
func (p *Pager[T]) GetPageSize() int {
	if p == nil {
		return 0
	}

	return p.pageSize
}

// GetOffsetCutoff returns the effective offset cutoff.
func (p *Pager[T]) GetOffsetCutoff() int {
	if p == nil || p.offsetCutoff <= 0 {
		return DefaultOffsetCutoff
	}

	return p.offsetCutoff
}

// Page is one paginated result window in canonical presentation order.
type Page[T any] struct {
	// Items - at most PageSize rows of the dataset.
	Items []T
	// HasNext reports whether a page exists after this one.
	HasNext bool
	// HasPrevious reports whether a page exists before this one.
	HasPrevious bool

	next     *Cursor
	previous *Cursor
}

// NextToken returns the token resuming after this page, or "" when there
// is no following page.
func (p *Page[T]) NextToken() string {
	if p == nil || p.next == nil {
		return ""
	}

	return EncodeCursor(*p.next)
}

// PreviousToken returns the token resuming before this page, or "" when
// there is no preceding page.
func (p *Page[T]) PreviousToken() string {
	if p == nil || p.previous == nil {
		return ""
	}

	return EncodeCursor(*p.previous)
}

// Paginate runs one page request against the source:
//
//  1. decode the incoming token (empty token = first page);
//  2. resolve the canonical ordering, unique key included;
//  3. scan in canonical order, or fully inverted order for a reverse
//     cursor;
//  4. filter strictly beyond the cursor position, when one is set;
//  5. fetch rows [offset, offset+pageSize+1) - one extra row decides
//     whether a following page exists without a second query;
//  6. trim to pageSize, flip a reverse scan back into presentation
//     order, and derive the navigation state and tokens.
//
// Returns (nil, nil) when the page size is zero: the caller should run
// its query unpaginated. Source execution errors propagate unchanged.
func (p *Pager[T]) Paginate(src Source[T], token string) (*Page[T], error) {
	if p == nil {
		p = new(Pager[T])
	}

	if p.pageSize <= 0 {
		return nil, nil
	}

	cursor, err := DecodeCursor(token, p.GetOffsetCutoff())
	if err != nil {
		return nil, p.cursorError(err)
	}

	ordering, err := p.resolveOrdering(src)
	if err != nil {
		return nil, err
	}

	scanOrdering := ordering
	if cursor.Reverse {
		scanOrdering = ordering.Reversed()
	}
	scan := src.Order(scanOrdering)

	if cursor.Position != nil {
		values, err := decodePosition(*cursor.Position, len(ordering))
		if err != nil {
			return nil, p.cursorError(err)
		}

		boundary, err := boundaryExpression(ordering, values, cursor.Reverse, p.kinds, p.tupleComparison)
		if err != nil {
			if errors.Is(err, ErrInvalidCursor) {
				return nil, p.cursorError(err)
			}

			return nil, err
		}

		scan = scan.Where(boundary)
	}

	rows, err := scan.Slice(cursor.Offset, cursor.Offset+p.pageSize+1)
	if err != nil {
		return nil, err
	}

	items := rows
	if len(rows) > p.pageSize {
		items = rows[:p.pageSize]
	}
	hasFollowing := len(rows) > len(items)

	if cursor.Reverse {
		// The scan ran against the canonical ordering; flip the window
		// back into presentation order. "Following" in scan order is
		// "preceding" in presentation order.
		slices.Reverse(items)
	}

	page := &Page[T]{Items: items}
	if cursor.Reverse {
		page.HasNext = cursor.Position != nil || cursor.Offset > 0
		page.HasPrevious = hasFollowing
	} else {
		page.HasNext = hasFollowing
		page.HasPrevious = cursor.Position != nil || cursor.Offset > 0
	}

	err = p.deriveTokens(src, ordering, cursor, page)
	if err != nil {
		return nil, err
	}

	return page, nil
}

// PaginateRequest runs Paginate with the token taken from the request's
// cursor query parameter.
func (p *Pager[T]) PaginateRequest(src Source[T], r *http.Request) (*Page[T], error) {
	param := DefaultCursorQueryParam
	if p != nil && p.cursorQueryParam != "" {
		param = p.cursorQueryParam
	}

	return p.Paginate(src, r.URL.Query().Get(param))
}

// deriveTokens builds the next/previous cursors. The ordering always
// contains a unique key, so every row has a distinct position and the
// boundary row of a token is simply the last (next) or first (previous)
// row of the returned page. An empty page carries the request's own
// position through, keeping navigation alive when the offset overshoots
// the dataset.
func (p *Pager[T]) deriveTokens(src Source[T], ordering Orderings, cursor Cursor, page *Page[T]) error {
	if page.HasNext {
		next := Cursor{}
		if len(page.Items) > 0 {
			position, err := positionFromRow(src, ordering, p.kinds, page.Items[len(page.Items)-1])
			if err != nil {
				return fmt.Errorf("cannot build next page cursor: %w", err)
			}

			next.Position = &position
		} else {
			next.Position = cursor.Position
		}

		page.next = &next
	}

	if page.HasPrevious {
		previous := Cursor{Reverse: true}
		if len(page.Items) > 0 {
			position, err := positionFromRow(src, ordering, p.kinds, page.Items[0])
			if err != nil {
				return fmt.Errorf("cannot build previous page cursor: %w", err)
			}

			previous.Position = &position
		} else {
			previous.Position = cursor.Position
		}

		page.previous = &previous
	}

	return nil
}

func (p *Pager[T]) resolveOrdering(src Source[T]) (Orderings, error) {
	specs := p.ordering
	if p.orderingProvider != nil {
		specs = p.orderingProvider()
	}

	return ResolveOrdering(specs, src.UniqueKeyColumn())
}

func (p *Pager[T]) cursorError(err error) error {
	message := p.invalidCursorMessage
	if message == "" {
		message = DefaultInvalidCursorMessage
	}

	return &CursorError{message: message, err: err}
}
