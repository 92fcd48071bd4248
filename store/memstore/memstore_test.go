package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facade-admin/store"
)

func seed(t *testing.T) *Store {
	t.Helper()
	s := NewDefault()
	mustInsert(t, s, store.TableProjects, "p1", map[string]string{"customer_id": "t1"})
	mustInsert(t, s, store.TableBuildings, "b1", map[string]string{"project_id": "p1", "customer_id": "t1"})
	mustInsert(t, s, store.TableBuildings, "b2", map[string]string{"project_id": "p1", "customer_id": "t2"})
	mustInsert(t, s, store.TableFacades, "f1", map[string]string{"building_id": "b1", "customer_id": "t1"})
	mustInsert(t, s, store.TablePanels, "x1", map[string]string{"project_id": "p1", "customer_id": "t1"})
	return s
}

func mustInsert(t *testing.T, s *Store, table, id string, cols map[string]string) {
	t.Helper()
	_, err := s.Insert(table, id, cols)
	require.NoError(t, err)
}

func TestCountAppliesEveryFilter(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	n, err := s.Count(ctx, store.TableBuildings, store.Eq("project_id", "p1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Count(ctx, store.TableBuildings, store.Eq("project_id", "p1"), store.Eq("customer_id", "t1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSelectIDsSorted(t *testing.T) {
	s := seed(t)
	ids, err := s.SelectIDs(context.Background(), store.TableBuildings, store.Eq("project_id", "p1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, ids)
}

func TestEmptySetMatchesNothing(t *testing.T) {
	s := seed(t)
	n, err := s.Count(context.Background(), store.TableFacades, store.In("building_id", nil))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteRejectsReferencedParent(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	_, err := s.Delete(ctx, store.TableBuildings, store.Eq("project_id", "p1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrReferenced))
	assert.Equal(t, 2, s.Len(store.TableBuildings), "a rejected delete must not remove anything")

	n, err := s.Delete(ctx, store.TableFacades, store.In("building_id", []string{"b1", "b2"}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Delete(ctx, store.TableBuildings, store.Eq("project_id", "p1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestDeleteRequiresFilters(t *testing.T) {
	s := seed(t)
	_, err := s.Delete(context.Background(), store.TablePanels)
	assert.True(t, errors.Is(err, store.ErrNoFilters))
	assert.Equal(t, 1, s.Len(store.TablePanels))
}

func TestUnknownTable(t *testing.T) {
	s := NewDefault()
	_, err := s.Count(context.Background(), "notes", store.Eq("id", "n1"))
	assert.True(t, errors.Is(err, store.ErrUnknownTable))
}

func TestFailOnInjectsError(t *testing.T) {
	s := seed(t)
	boom := errors.New("boom")
	s.FailOn(OpDelete, store.TablePanels, boom)

	_, err := s.Delete(context.Background(), store.TablePanels, store.Eq("project_id", "p1"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Len(store.TablePanels))

	s.FailOn(OpDelete, store.TablePanels, nil)
	n, err := s.Delete(context.Background(), store.TablePanels, store.Eq("project_id", "p1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJournalRecordsOperations(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	_, _ = s.Count(ctx, store.TablePanels, store.Eq("project_id", "p1"))
	_, _ = s.Delete(ctx, store.TablePanels, store.Eq("project_id", "p1"))

	journal := s.Journal()
	require.Len(t, journal, 2)
	assert.Equal(t, OpCount, journal[0].Kind)
	assert.Equal(t, OpDelete, journal[1].Kind)
	assert.Equal(t, int64(1), journal[1].Rows)

	s.ResetJournal()
	assert.Empty(t, s.Journal())
}

func TestCancelledContext(t *testing.T) {
	s := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Count(ctx, store.TablePanels, store.Eq("project_id", "p1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInsertGeneratesID(t *testing.T) {
	s := NewDefault()
	id, err := s.Insert(store.TableProjects, "", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	row, ok := s.Get(store.TableProjects, id)
	require.True(t, ok)
	assert.Equal(t, id, row.ID)
}

func TestNewRejectsUnknownReferenceTable(t *testing.T) {
	_, err := New([]string{"projects"}, []Reference{{Child: "buildings", Column: "project_id", Parent: "projects"}})
	assert.Error(t, err)
}
