// Package gormstore implements store.DataStore on top of GORM and PostgreSQL.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/facade-admin/models"
	"github.com/facade-admin/store"
)

// SQLSTATE foreign_key_violation
const foreignKeyViolation = "23503"

// Store maps store tables to GORM models.
type Store struct {
	db     *gorm.DB
	models map[string]func() interface{}
}

var _ store.DataStore = (*Store)(nil)

// DefaultModels maps every table the cascading deleter touches to its model.
func DefaultModels() map[string]func() interface{} {
	return map[string]func() interface{}{
		store.TableProjects:  func() interface{} { return &models.Project{} },
		store.TableBuildings: func() interface{} { return &models.Building{} },
		store.TableFacades:   func() interface{} { return &models.Facade{} },
		store.TablePanels:    func() interface{} { return &models.Panel{} },
	}
}

// New creates a store over db using DefaultModels.
func New(db *gorm.DB) *Store {
	return NewWithModels(db, DefaultModels())
}

// NewWithModels creates a store with a custom table to model mapping.
func NewWithModels(db *gorm.DB, m map[string]func() interface{}) *Store {
	return &Store{db: db, models: m}
}

// Count implements store.DataStore.
func (s *Store) Count(ctx context.Context, table string, filters ...store.Filter) (int64, error) {
	q, _, err := s.query(ctx, table, filters)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// SelectIDs implements store.DataStore.
func (s *Store) SelectIDs(ctx context.Context, table string, filters ...store.Filter) ([]string, error) {
	q, _, err := s.query(ctx, table, filters)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := q.Order(store.ColumnID).Pluck(store.ColumnID, &ids).Error; err != nil {
		return nil, fmt.Errorf("select ids from %s: %w", table, err)
	}
	return ids, nil
}

// Delete implements store.DataStore. Foreign key violations are reported as
// store.ErrReferenced.
func (s *Store) Delete(ctx context.Context, table string, filters ...store.Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, store.ErrNoFilters
	}
	q, proto, err := s.query(ctx, table, filters)
	if err != nil {
		return 0, err
	}
	result := q.Delete(proto)
	if result.Error != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, TranslateError(result.Error))
	}
	return result.RowsAffected, nil
}

func (s *Store) query(ctx context.Context, table string, filters []store.Filter) (*gorm.DB, interface{}, error) {
	newModel, ok := s.models[table]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
	exprs, err := Expressions(filters)
	if err != nil {
		return nil, nil, err
	}
	proto := newModel()
	q := s.db.WithContext(ctx).Model(proto)
	if len(exprs) > 0 {
		q = q.Clauses(clause.Where{Exprs: exprs})
	}
	return q, proto, nil
}

// Expressions converts filters to GORM clause expressions. An empty set
// filter becomes an always-false expression.
func Expressions(filters []store.Filter) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		col := clause.Column{Name: f.Column}
		if !f.Set {
			exprs = append(exprs, clause.Eq{Column: col, Value: f.Values[0]})
			continue
		}
		if len(f.Values) == 0 {
			exprs = append(exprs, clause.Expr{SQL: "1 = 0"})
			continue
		}
		values := make([]interface{}, len(f.Values))
		for i, v := range f.Values {
			values[i] = v
		}
		exprs = append(exprs, clause.IN{Column: col, Values: values})
	}
	return exprs, nil
}

// TranslateError maps foreign key violations to store.ErrReferenced and
// returns any other error unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", store.ErrReferenced, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s (%s)", store.ErrReferenced, pgErr.Message, pgErr.ConstraintName)
	}
	return err
}
