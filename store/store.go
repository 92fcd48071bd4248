// Package store defines the table-level data access used by the cascading
// project deleter. Implementations live in gormstore (PostgreSQL) and
// memstore (in-memory, go-memdb).
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Table names shared by every DataStore implementation.
const (
	TableProjects  = "projects"
	TableBuildings = "buildings"
	TableFacades   = "facades"
	TablePanels    = "panels"
)

// Column names used in filters.
const (
	ColumnID         = "id"
	ColumnProjectID  = "project_id"
	ColumnBuildingID = "building_id"
	ColumnCustomerID = "customer_id"
)

var (
	// ErrReferenced is returned by Delete when a matched row is still
	// referenced by rows in another table.
	ErrReferenced = errors.New("store: row is still referenced by other rows")
	// ErrUnknownTable is returned for tables the store does not manage.
	ErrUnknownTable = errors.New("store: unknown table")
	// ErrNoFilters is returned when Delete is called without any predicate.
	ErrNoFilters = errors.New("store: delete requires at least one filter")
	// ErrInvalidColumn is returned for column names that are not plain identifiers.
	ErrInvalidColumn = errors.New("store: invalid column name")
)

// Filter is a single predicate on a column. Equality filters carry exactly one
// value; set filters match any of Values and match nothing when Values is empty.
type Filter struct {
	Column string
	Values []string
	Set    bool
}

// Eq builds a column = value predicate.
func Eq(column, value string) Filter {
	return Filter{Column: column, Values: []string{value}}
}

// In builds a column IN (values...) predicate.
func In(column string, values []string) Filter {
	vals := make([]string, len(values))
	copy(vals, values)
	return Filter{Column: column, Values: vals, Set: true}
}

// Matches reports whether the given column value satisfies the filter.
func (f Filter) Matches(value string) bool {
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

func (f Filter) String() string {
	if f.Set {
		return fmt.Sprintf("%s in [%s]", f.Column, strings.Join(f.Values, ","))
	}
	if len(f.Values) == 0 {
		return f.Column + " = <none>"
	}
	return fmt.Sprintf("%s = %s", f.Column, f.Values[0])
}

// Validate checks the column is a plain lower-case identifier and that
// equality filters carry a single value.
func (f Filter) Validate() error {
	if !ValidColumn(f.Column) {
		return fmt.Errorf("%w: %q", ErrInvalidColumn, f.Column)
	}
	if !f.Set && len(f.Values) != 1 {
		return fmt.Errorf("store: equality filter on %s needs exactly one value", f.Column)
	}
	return nil
}

// ValidColumn reports whether name is safe to use as an unquoted SQL column.
func ValidColumn(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// DataStore is the remote table store consumed by the cascading deleter.
type DataStore interface {
	// Count returns the number of rows in table matching every filter.
	Count(ctx context.Context, table string, filters ...Filter) (int64, error)
	// SelectIDs returns the id column of rows in table matching every filter.
	SelectIDs(ctx context.Context, table string, filters ...Filter) ([]string, error)
	// Delete removes rows in table matching every filter and returns how many
	// were removed.
	Delete(ctx context.Context, table string, filters ...Filter) (int64, error)
}
