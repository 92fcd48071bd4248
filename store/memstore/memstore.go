// Package memstore is an in-memory store.DataStore backed by go-memdb.
//
// It enforces parent/child reference rules the way PostgreSQL foreign keys
// with ON DELETE RESTRICT would, records every operation in a journal and can
// be told to fail specific operations. Tests and the facadectl simulate
// command use it in place of a database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/facade-admin/store"
)

// Operation kinds recorded in the journal.
const (
	OpCount  = "count"
	OpSelect = "select"
	OpDelete = "delete"
)

// Row is a stored record. Columns holds every column except id.
type Row struct {
	ID      string
	Columns map[string]string
}

func (r *Row) value(column string) string {
	if column == store.ColumnID {
		return r.ID
	}
	return r.Columns[column]
}

// Reference declares that Child.Column points at Parent.id.
type Reference struct {
	Child  string
	Column string
	Parent string
}

// DefaultReferences mirrors the foreign keys of the PostgreSQL schema.
var DefaultReferences = []Reference{
	{Child: store.TableBuildings, Column: store.ColumnProjectID, Parent: store.TableProjects},
	{Child: store.TablePanels, Column: store.ColumnProjectID, Parent: store.TableProjects},
	{Child: store.TableFacades, Column: store.ColumnBuildingID, Parent: store.TableBuildings},
}

// Op is one journal entry.
type Op struct {
	Kind    string
	Table   string
	Filters []store.Filter
	Rows    int64
	Err     error
}

func (o Op) String() string {
	return fmt.Sprintf("%s %s %v rows=%d", o.Kind, o.Table, o.Filters, o.Rows)
}

type failureKey struct {
	kind  string
	table string
}

// Store implements store.DataStore in memory.
type Store struct {
	db     *memdb.MemDB
	tables map[string]bool
	refs   []Reference

	mu       sync.Mutex
	journal  []Op
	failures map[failureKey]error
}

var _ store.DataStore = (*Store)(nil)

// New creates a store with the given tables and reference rules.
func New(tables []string, refs []Reference) (*Store, error) {
	schema := &memdb.DBSchema{Tables: make(map[string]*memdb.TableSchema, len(tables))}
	known := make(map[string]bool, len(tables))
	for _, name := range tables {
		schema.Tables[name] = &memdb.TableSchema{
			Name: name,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		}
		known[name] = true
	}
	for _, ref := range refs {
		if !known[ref.Child] || !known[ref.Parent] {
			return nil, fmt.Errorf("memstore: reference %s.%s -> %s uses an unknown table", ref.Child, ref.Column, ref.Parent)
		}
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("memstore: create database: %w", err)
	}
	return &Store{
		db:       db,
		tables:   known,
		refs:     refs,
		failures: make(map[failureKey]error),
	}, nil
}

// NewDefault creates a store with the project, building, facade and panel
// tables and DefaultReferences.
func NewDefault() *Store {
	s, err := New([]string{store.TableProjects, store.TableBuildings, store.TableFacades, store.TablePanels}, DefaultReferences)
	if err != nil {
		// the default schema is static; failure here is a programming error
		panic(err)
	}
	return s
}

// Insert adds or replaces a row and returns its id. An empty id gets a new UUID.
func (s *Store) Insert(table, id string, columns map[string]string) (string, error) {
	if !s.tables[table] {
		return "", fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
	if id == "" {
		id = uuid.NewString()
	}
	cols := make(map[string]string, len(columns))
	for k, v := range columns {
		cols[k] = v
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(table, &Row{ID: id, Columns: cols}); err != nil {
		return "", fmt.Errorf("memstore: insert into %s: %w", table, err)
	}
	txn.Commit()
	return id, nil
}

// Get returns a copy of the row with the given id.
func (s *Store) Get(table, id string) (Row, bool) {
	if !s.tables[table] {
		return Row{}, false
	}
	txn := s.db.Txn(false)
	raw, err := txn.First(table, "id", id)
	if err != nil || raw == nil {
		return Row{}, false
	}
	row := raw.(*Row)
	cols := make(map[string]string, len(row.Columns))
	for k, v := range row.Columns {
		cols[k] = v
	}
	return Row{ID: row.ID, Columns: cols}, true
}

// Len returns the number of rows in table.
func (s *Store) Len(table string) int {
	rows, err := s.scan(s.db.Txn(false), table, nil)
	if err != nil {
		return 0
	}
	return len(rows)
}

// FailOn makes every later operation of kind on table return err.
// A nil err clears the failure.
func (s *Store) FailOn(kind, table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := failureKey{kind: kind, table: table}
	if err == nil {
		delete(s.failures, key)
		return
	}
	s.failures[key] = err
}

// Journal returns a copy of the recorded operations.
func (s *Store) Journal() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Op, len(s.journal))
	copy(out, s.journal)
	return out
}

// ResetJournal clears the recorded operations.
func (s *Store) ResetJournal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = nil
}

// Count implements store.DataStore.
func (s *Store) Count(ctx context.Context, table string, filters ...store.Filter) (int64, error) {
	if err := s.begin(ctx, OpCount, table, filters); err != nil {
		return 0, s.record(OpCount, table, filters, 0, err)
	}
	rows, err := s.scan(s.db.Txn(false), table, filters)
	if err != nil {
		return 0, s.record(OpCount, table, filters, 0, err)
	}
	n := int64(len(rows))
	return n, s.record(OpCount, table, filters, n, nil)
}

// SelectIDs implements store.DataStore. Ids are returned sorted.
func (s *Store) SelectIDs(ctx context.Context, table string, filters ...store.Filter) ([]string, error) {
	if err := s.begin(ctx, OpSelect, table, filters); err != nil {
		return nil, s.record(OpSelect, table, filters, 0, err)
	}
	rows, err := s.scan(s.db.Txn(false), table, filters)
	if err != nil {
		return nil, s.record(OpSelect, table, filters, 0, err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	sort.Strings(ids)
	return ids, s.record(OpSelect, table, filters, int64(len(ids)), nil)
}

// Delete implements store.DataStore. The delete is all-or-nothing: if any
// matched row is still referenced, nothing is removed and the error wraps
// store.ErrReferenced.
func (s *Store) Delete(ctx context.Context, table string, filters ...store.Filter) (int64, error) {
	if err := s.begin(ctx, OpDelete, table, filters); err != nil {
		return 0, s.record(OpDelete, table, filters, 0, err)
	}
	if len(filters) == 0 {
		return 0, s.record(OpDelete, table, filters, 0, store.ErrNoFilters)
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	rows, err := s.scan(txn, table, filters)
	if err != nil {
		return 0, s.record(OpDelete, table, filters, 0, err)
	}
	for _, row := range rows {
		if err := s.checkReferences(txn, table, row); err != nil {
			return 0, s.record(OpDelete, table, filters, 0, err)
		}
	}
	for _, row := range rows {
		if err := txn.Delete(table, row); err != nil {
			return 0, s.record(OpDelete, table, filters, 0, fmt.Errorf("memstore: delete from %s: %w", table, err))
		}
	}
	txn.Commit()

	n := int64(len(rows))
	return n, s.record(OpDelete, table, filters, n, nil)
}

func (s *Store) begin(ctx context.Context, kind, table string, filters []store.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.tables[table] {
		return fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[failureKey{kind: kind, table: table}]
}

func (s *Store) record(kind, table string, filters []store.Filter, rows int64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, Op{Kind: kind, Table: table, Filters: filters, Rows: rows, Err: err})
	return err
}

func (s *Store) scan(txn *memdb.Txn, table string, filters []store.Filter) ([]*Row, error) {
	if !s.tables[table] {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
	it, err := txn.Get(table, "id")
	if err != nil {
		return nil, fmt.Errorf("memstore: scan %s: %w", table, err)
	}
	var rows []*Row
	for raw := it.Next(); raw != nil; raw = it.Next() {
		row := raw.(*Row)
		if matchesAll(row, filters) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *Store) checkReferences(txn *memdb.Txn, table string, row *Row) error {
	for _, ref := range s.refs {
		if ref.Parent != table {
			continue
		}
		children, err := s.scan(txn, ref.Child, []store.Filter{store.Eq(ref.Column, row.ID)})
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return fmt.Errorf("%w: %s %s is referenced by %d %s row(s)", store.ErrReferenced, table, row.ID, len(children), ref.Child)
		}
	}
	return nil
}

func matchesAll(row *Row, filters []store.Filter) bool {
	for _, f := range filters {
		if !f.Matches(row.value(f.Column)) {
			return false
		}
	}
	return true
}
