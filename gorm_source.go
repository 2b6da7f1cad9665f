package keyset

import (
	"fmt"

	"gorm.io/gorm"
)

// Getters - a dictionary of value getters for a model. Declare the columns
// the pagination ordering is built on.
// Example:
//
//	keyset.Getters[models.PlayerPushTarget]{
//		"id":          func(row models.PlayerPushTarget) any { return row.ID },
//		"deposit_sum": func(row models.PlayerPushTarget) any { return row.DepositSum },
//	}
type Getters[T any] map[string]func(T) any

// GormSource adapts a gorm query to the Source capability. The wrapped
// *gorm.DB should already be scoped to the model or table and may carry
// its own filters; the pager only adds ordering, the boundary predicate
// and the row window on top.
type GormSource[T any] struct {
	db        *gorm.DB
	uniqueKey string
	getters   Getters[T]
}

func NewGormSource[T any](db *gorm.DB, uniqueKey string, getters Getters[T]) *GormSource[T] {
	return &GormSource[T]{
		db:        db,
		uniqueKey: uniqueKey,
		getters:   getters,
	}
}

// Order - implements Source.
func (s *GormSource[T]) Order(ordering Orderings) Source[T] {
	return s.with(ordering.Apply(s.db))
}

// Where - implements Source.
func (s *GormSource[T]) Where(expr Expression) Source[T] {
	if expr == nil {
		return s
	}

	exp := expr.Clauses()
	if exp == nil {
		return s
	}

	return s.with(s.db.Clauses(exp))
}

// Slice - implements Source. Materializes rows [start, end) via
// OFFSET/LIMIT.
func (s *GormSource[T]) Slice(start, end int) ([]T, error) {
	db := s.db
	if start > 0 {
		db = db.Offset(start)
	}
	db = db.Limit(end - start)

	var rows []T
	err := db.Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// UniqueKeyColumn - implements Source.
func (s *GormSource[T]) UniqueKeyColumn() string {
	return s.uniqueKey
}

// FieldValue - implements Source.
func (s *GormSource[T]) FieldValue(row T, column string) (any, error) {
	getter, ok := s.getters[column]
	if !ok {
		return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", column)
	}

	return getter(row), nil
}

func (s *GormSource[T]) with(db *gorm.DB) *GormSource[T] {
	return &GormSource[T]{
		db:        db,
		uniqueKey: s.uniqueKey,
		getters:   s.getters,
	}
}

var _ Source[any] = (*GormSource[any])(nil)
