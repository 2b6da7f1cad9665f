package keyset

import (
	"encoding/json"
	"fmt"
)

// The position payload is a JSON array of string-encoded ordering-field
// values, one per canonical ordering field, in ordering order. String
// encoding per field is defined by the column's ValueKind.

func encodePosition(values []string) string {
	data, err := json.Marshal(values)
	if err != nil {
		// A []string cannot fail to marshal.
		panic(fmt.Errorf("cannot marshal position values: %w", err))
	}

	return string(data)
}

// decodePosition parses a position payload and validates that its value
// count matches the ordering length. A mismatch means the token was built
// for a different ordering and cannot define a boundary.
func decodePosition(position string, orderingLen int) ([]string, error) {
	var values []string
	err := json.Unmarshal([]byte(position), &values)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal position payload: %w", ErrInvalidCursor, err)
	}

	if len(values) != orderingLen {
		return nil, fmt.Errorf(
			"%w: position holds %d values, ordering has %d fields",
			ErrInvalidCursor, len(values), orderingLen,
		)
	}

	return values, nil
}

// positionFromRow reads the ordering-field values of a row through the
// source and encodes them into a position payload.
func positionFromRow[T any](src Source[T], ordering Orderings, kinds ColumnKinds, row T) (string, error) {
	values := make([]string, 0, len(ordering))
	for _, orderBy := range ordering {
		value, err := src.FieldValue(row, orderBy.Column)
		if err != nil {
			return "", fmt.Errorf("cannot read position value: %w", err)
		}

		encoded, err := kinds.kindOf(orderBy.Column).format(value)
		if err != nil {
			return "", fmt.Errorf("cannot encode position value for column '%s': %w", orderBy.Column, err)
		}

		values = append(values, encoded)
	}

	return encodePosition(values), nil
}
