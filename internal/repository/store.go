package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Page limits a list query.
type Page struct {
	Skip  int
	Limit int
}

// Scope narrows a query, typically built from a list filter.
type Scope = func(*gorm.DB) *gorm.DB

// Store is the CRUD surface shared by every catalog repository.
type Store[T any] interface {
	FindByID(ctx context.Context, id uint, preloads ...string) (*T, error)
	List(ctx context.Context, scope Scope, page Page, preloads ...string) ([]T, int64, error)
	Create(ctx context.Context, m *T) error
	Save(ctx context.Context, m *T) error
	Delete(ctx context.Context, m *T) error
	Exists(ctx context.Context, column string, value interface{}, excludeID uint) (bool, error)
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)
	Lock(ctx context.Context, id uint) (*T, error)
}

type store[T any] struct {
	db *gorm.DB
}

func (s store[T]) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s store[T]) FindByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	var m T
	q := s.conn(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Lock loads a row with FOR UPDATE, so it is only meaningful inside a transaction.
func (s store[T]) Lock(ctx context.Context, id uint) (*T, error) {
	var m T
	q := s.conn(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s store[T]) List(ctx context.Context, scope Scope, page Page, preloads ...string) ([]T, int64, error) {
	q := s.conn(ctx).Model(new(T))
	if scope != nil {
		q = scope(q)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []T{}
	find := q.Order("id ASC").Offset(page.Skip)
	if page.Limit > 0 {
		find = find.Limit(page.Limit)
	}
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create inserts m. An inactive row is flipped back after the insert, since
// the insert replaces a false is_active with the column default.
func (s store[T]) Create(ctx context.Context, m *T) error {
	inactive := false
	if b, ok := any(m).(interface{ Inactive() bool }); ok {
		inactive = b.Inactive()
	}
	db := s.conn(ctx)
	if err := db.Create(m).Error; err != nil {
		return err
	}
	if !inactive {
		return nil
	}
	return db.Model(m).UpdateColumn("is_active", false).Error
}

func (s store[T]) Save(ctx context.Context, m *T) error {
	return s.conn(ctx).Omit(clause.Associations).Save(m).Error
}

func (s store[T]) Delete(ctx context.Context, m *T) error {
	return s.conn(ctx).Delete(m).Error
}

// Exists reports whether another row (id != excludeID) has column = value.
func (s store[T]) Exists(ctx context.Context, column string, value interface{}, excludeID uint) (bool, error) {
	var count int64
	q := s.conn(ctx).Model(new(T)).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MissingIDs returns the ids with no matching row, in request order.
func (s store[T]) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := s.conn(ctx).Model(new(T)).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	have := make(map[uint]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
			have[id] = true
		}
	}
	return missing, nil
}

func count(ctx context.Context, db *gorm.DB, m interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(m).Where(query, args...).Count(&n).Error
	return n, err
}

// IsNotFound reports whether err is gorm's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
