package keyset

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
)

var _encoder = base64.RawURLEncoding

// Cursor is the decoded pagination position. The zero value is the first
// page. A Cursor is an immutable snapshot: it is produced once per page
// request by DecodeCursor (or synthesized empty) and never mutated.
type Cursor struct {
	// Offset - rows to skip after the position filter has been applied.
	// Bounded by the offset cutoff to prevent abusive deep scans.
	Offset int
	// Reverse - whether the scan runs against the canonical ordering
	// (paging backward through the dataset).
	Reverse bool
	// Position - encoded sort-key values of the boundary row, or nil for
	// a cursor without a fixed position. Opaque to the codec; only the
	// boundary builder interprets its structure.
	Position *string
}

// token query-string keys. Zero values are omitted from the token.
const (
	tokenKeyOffset   = "o"
	tokenKeyReverse  = "r"
	tokenKeyPosition = "p"
)

// EncodeCursor serializes a cursor into its URL-safe token: a query
// string of at most "o", "r" and "p" keys wrapped in base64. The zero
// cursor encodes to the empty token.
func EncodeCursor(c Cursor) string {
	tokens := url.Values{}
	if c.Offset != 0 {
		tokens.Set(tokenKeyOffset, strconv.Itoa(c.Offset))
	}
	if c.Reverse {
		tokens.Set(tokenKeyReverse, "1")
	}
	if c.Position != nil {
		tokens.Set(tokenKeyPosition, *c.Position)
	}

	querystring := tokens.Encode()
	if querystring == "" {
		return ""
	}

	return _encoder.EncodeToString([]byte(querystring))
}

// DecodeCursor parses a token produced by EncodeCursor. The empty token
// yields the zero cursor. An offset above offsetCutoff is clamped, never
// rejected; offsetCutoff <= 0 selects DefaultOffsetCutoff.
//
// Any malformed input (bad base64, non-ASCII payload, broken query
// string, negative or non-numeric offset, reverse flag other than 0/1)
// fails with an error wrapping ErrInvalidCursor.
func DecodeCursor(token string, offsetCutoff int) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	if offsetCutoff <= 0 {
		offsetCutoff = DefaultOffsetCutoff
	}

	raw, err := _encoder.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: failed to decode base64 encoded token: %w", ErrInvalidCursor, err)
	}

	for _, b := range raw {
		if b > 127 {
			return Cursor{}, fmt.Errorf("%w: token payload is not ASCII", ErrInvalidCursor)
		}
	}

	tokens, err := url.ParseQuery(string(raw))
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: failed to parse token query string: %w", ErrInvalidCursor, err)
	}

	var c Cursor

	if o := tokens.Get(tokenKeyOffset); o != "" {
		offset, err := strconv.Atoi(o)
		if err != nil || offset < 0 {
			return Cursor{}, fmt.Errorf("%w: offset '%s' is not a non-negative integer", ErrInvalidCursor, o)
		}

		c.Offset = min(offset, offsetCutoff)
	}

	switch r := tokens.Get(tokenKeyReverse); r {
	case "", "0":
	case "1":
		c.Reverse = true
	default:
		return Cursor{}, fmt.Errorf("%w: reverse flag '%s' is not 0/1", ErrInvalidCursor, r)
	}

	if _, ok := tokens[tokenKeyPosition]; ok {
		position := tokens.Get(tokenKeyPosition)
		c.Position = &position
	}

	return c, nil
}
