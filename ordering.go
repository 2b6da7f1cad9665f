package keyset

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

func (o Direction) ForOperator() Operator {
	switch o {
	case DirectionASC:
		return OperatorGT
	case DirectionDESC:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", o))
	}
}

// inverted swaps ASC and DESC.
func (o Direction) inverted() Direction {
	if o == DirectionASC {
		return DirectionDESC
	}

	return DirectionASC
}

type (
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("ordering column name contains forbidden symbols '%s'", o.Column)
	}

	// Double-underscore column references are relational lookups in the
	// API notation; a cursor boundary cannot compare across entities.
	if strings.Contains(o.Column, "__") {
		return fmt.Errorf("ordering column '%s' is a relational lookup", o.Column)
	}

	return nil
}

// Spec renders the ordering field back to its request notation:
// "column" for ascending, "-column" for descending.
func (o OrderBy) Spec() string {
	if o.Direction == DirectionDESC {
		return "-" + o.Column
	}

	return o.Column
}

// ParseOrderBy parses a request-notation field specifier. A leading "-"
// marks descending order, otherwise the field is ascending.
func ParseOrderBy(spec string) (OrderBy, error) {
	spec = strings.TrimSpace(spec)

	direction := DirectionASC
	if strings.HasPrefix(spec, "-") {
		direction = DirectionDESC
		spec = spec[1:]
	}

	if spec == "" {
		return OrderBy{}, fmt.Errorf("empty ordering field spec")
	}

	return OrderBy{Column: spec, Direction: direction}, nil
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>" suitable for SQL query builders.
//
// Example: for Orderings: [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (o Orderings) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, fmt.Sprintf("%s %s", ordering.Column, ordering.Direction))
	}

	return ret
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>"
// suitable for embedding into an SQL query.
// Example: for [{"a", "ASC"}, {"b", "DESC"}] returns "a ASC, b DESC".
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", orderings.ToSQL())
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// Apply applies the ordering to a gorm query.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.ToSQL())
}

// Reversed returns a copy of the orderings with every direction inverted.
// Used when a cursor walks the dataset backward.
func (o Orderings) Reversed() Orderings {
	return lo.Map(o, func(item OrderBy, _ int) OrderBy {
		return OrderBy{Column: item.Column, Direction: item.Direction.inverted()}
	})
}

func (o Orderings) columns() []string {
	return lo.Map(o, func(item OrderBy, _ int) string {
		return item.Column
	})
}

func (o Orderings) contains(column string) bool {
	return lo.ContainsBy(o, func(item OrderBy) bool {
		return item.Column == column
	})
}

func (o Orderings) allAscending() bool {
	return lo.EveryBy(o, func(item OrderBy) bool {
		return item.Direction == DirectionASC
	})
}

func (o Orderings) allDescending() bool {
	return lo.EveryBy(o, func(item OrderBy) bool {
		return item.Direction == DirectionDESC
	})
}

// uniform reports whether every field sorts in the same direction. Only
// uniform orderings qualify for the tuple comparison rewrite.
func (o Orderings) uniform() bool {
	return o.allAscending() || o.allDescending()
}

func (o Orderings) validate() error {
	if len(o) == 0 {
		return fmt.Errorf("empty ordering list")
	}

	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// Resolve produces the canonical ordering: validated, duplicate columns
// collapsed (last occurrence wins) and the unique key appended ascending
// unless it is already present in either direction. Deterministic for
// equal inputs.
func (o Orderings) Resolve(uniqueKey string) (Orderings, error) {
	ret := make(Orderings, 0, len(o)+1)
	for _, orderBy := range o {
		idx := lo.IndexOf(ret.columns(), orderBy.Column)
		if idx != -1 {
			ret = append(ret[:idx], ret[idx+1:]...)
		}

		ret = append(ret, orderBy)
	}

	if !ret.contains(uniqueKey) {
		ret = append(ret, OrderBy{Column: uniqueKey, Direction: DirectionASC})
	}

	err := ret.validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedOrdering, err)
	}

	return ret, nil
}

// ResolveOrdering parses request-notation field specs ("name", "-created")
// and resolves them into the canonical ordering including the unique key.
// Fails with ErrUnsupportedOrdering on empty input, relational lookups or
// forbidden column names.
func ResolveOrdering(specs []string, uniqueKey string) (Orderings, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no ordering declared", ErrUnsupportedOrdering)
	}

	parsed := make(Orderings, 0, len(specs))
	for _, spec := range specs {
		orderBy, err := ParseOrderBy(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedOrdering, err)
		}

		parsed = append(parsed, orderBy)
	}

	return parsed.Resolve(uniqueKey)
}

// ParseSort builds Orderings from a list of strings in the format
// "column asc|desc". Column aliases are resolved via ColumnMapping.
// Returns an error if an alias is not found in the mapping.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (Orderings, error) {
	ret := make([]OrderBy, 0, len(stringsOrderings))
	aliases := lo.Keys(columnMapping)

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Split(strings.TrimSpace(stringOrdering), " ")
		if len(cutStringOrdering) != 2 {
			return nil, fmt.Errorf("invalid ordering string format '%s'", stringOrdering)
		}

		columnAlias := cutStringOrdering[0]
		direction := Direction(strings.ToUpper(cutStringOrdering[1]))
		columnName := columnMapping[columnAlias]
		if columnName == "" {
			return nil, fmt.Errorf("invalid column alias. closest: '%s'", closestAlias(columnAlias, aliases))
		}

		ret = append(ret, OrderBy{
			Column:    columnName,
			Direction: direction,
		})
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
