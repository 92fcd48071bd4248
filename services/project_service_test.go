package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facade-admin/access"
	"github.com/facade-admin/cascade"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/guard"
	"github.com/facade-admin/models"
	"github.com/facade-admin/prompt"
	"github.com/facade-admin/store"
	"github.com/facade-admin/store/memstore"
)

var (
	admin     = access.Principal{UserID: "u-admin", Role: models.RoleAdmin}
	tenantOne = access.Principal{UserID: "u-t1", Role: models.RoleCustomer, CustomerID: "T1"}
	tenantTwo = access.Principal{UserID: "u-t2", Role: models.RoleCustomer, CustomerID: "T2"}
)

type projectFixture struct {
	svc       *ProjectService
	projects  *fakeProjects
	deletions *fakeDeletions
	store     *memstore.Store
	guard     *guard.Memory
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	ds := memstore.NewDefault()
	mustInsert := func(table, id string, cols map[string]string) {
		_, err := ds.Insert(table, id, cols)
		require.NoError(t, err)
	}
	mustInsert(store.TableProjects, "P1", map[string]string{"customer_id": "T1"})
	mustInsert(store.TableBuildings, "B1", map[string]string{"project_id": "P1", "customer_id": "T1"})
	mustInsert(store.TableBuildings, "B2", map[string]string{"project_id": "P1", "customer_id": "T1"})
	for _, id := range []string{"F1", "F2", "F3"} {
		mustInsert(store.TableFacades, id, map[string]string{"building_id": "B1", "customer_id": "T1"})
	}
	for _, id := range []string{"X1", "X2", "X3", "X4", "X5"} {
		mustInsert(store.TablePanels, id, map[string]string{"project_id": "P1", "customer_id": "T1"})
	}

	projects := newFakeProjects(
		models.Project{ID: "P1", Name: "Harbour Tower", CustomerID: strPtr("T1")},
		models.Project{ID: "P2", Name: "Office Park"},
	)
	deletions := &fakeDeletions{}
	inflight := guard.NewMemory()
	deleter := cascade.NewDeleter(ds, prompt.NonInteractive{})
	svc := NewProjectService(projects, newFakeCustomers(models.Customer{ID: "T1", Name: "Acme"}), deletions, deleter, inflight, quietLog())
	return &projectFixture{svc: svc, projects: projects, deletions: deletions, store: ds, guard: inflight}
}

func TestDeleteProjectRemovesDependentsAndAudits(t *testing.T) {
	fx := newProjectFixture(t)
	confirm := prompt.NewStatic(true)

	out, err := fx.svc.DeleteProject(context.Background(), tenantOne, "P1", DeleteOptions{Confirmer: confirm})
	require.NoError(t, err)
	assert.Equal(t, cascade.Deleted, out.Kind)
	assert.Equal(t, cascade.Counts{Panels: 5, Buildings: 2, Facades: 3}, out.Counts)
	assert.True(t, confirm.Asked())
	assert.Zero(t, fx.store.Len(store.TableProjects))
	assert.False(t, fx.guard.Held("project:P1"), "the lock must be released")

	require.Len(t, fx.deletions.entries, 1)
	entry := fx.deletions.entries[0]
	assert.Equal(t, "deleted", entry.Outcome)
	assert.Equal(t, "P1", entry.ProjectID)
	assert.Equal(t, "Harbour Tower", entry.ProjectName)
	assert.Equal(t, "u-t1", entry.ActorID)
	assert.Equal(t, int64(5), entry.RemovedPanels)
	assert.Equal(t, int64(2), entry.RemovedBuildings)
	assert.Equal(t, int64(3), entry.RemovedFacades)
}

func TestDeleteProjectCancelledIsNotAuditedByDefault(t *testing.T) {
	fx := newProjectFixture(t)

	out, err := fx.svc.DeleteProject(context.Background(), admin, "P1", DeleteOptions{Confirmer: prompt.NewStatic(false)})
	require.NoError(t, err)
	assert.Equal(t, cascade.Cancelled, out.Kind)
	assert.Equal(t, 5, fx.store.Len(store.TablePanels))
	assert.Empty(t, fx.deletions.entries)

	out, err = fx.svc.DeleteProject(context.Background(), admin, "P1", DeleteOptions{Confirmer: prompt.NewStatic(false), AuditCancellation: true})
	require.NoError(t, err)
	assert.Equal(t, cascade.Cancelled, out.Kind)
	require.Len(t, fx.deletions.entries, 1)
	entry := fx.deletions.entries[0]
	assert.Equal(t, "cancelled", entry.Outcome)
	assert.Zero(t, entry.RemovedPanels)
	assert.Equal(t, cascade.Counts{Panels: 5, Buildings: 2, Facades: 3}, entry.Details["discovered"])
}

func TestDeleteProjectOtherTenantIsUnauthorized(t *testing.T) {
	fx := newProjectFixture(t)

	out, err := fx.svc.DeleteProject(context.Background(), tenantTwo, "P1", DeleteOptions{Confirmer: prompt.NewStatic(true)})
	require.NoError(t, err)
	assert.Equal(t, cascade.Unauthorized, out.Kind)
	assert.Equal(t, 1, fx.store.Len(store.TableProjects))
	require.Len(t, fx.deletions.entries, 1)
	entry := fx.deletions.entries[0]
	assert.Equal(t, "unauthorized", entry.Outcome)
	assert.Equal(t, "P1", entry.ProjectID)
	assert.Equal(t, tenantTwo.UserID, entry.ActorID)
	assert.Empty(t, entry.ProjectName, "another customer's project name is not recorded")
	assert.Nil(t, entry.CustomerID)
	assert.NotContains(t, entry.Details, "discovered")
}

func TestDeleteProjectBusy(t *testing.T) {
	fx := newProjectFixture(t)
	release, err := fx.guard.Acquire(context.Background(), "project:P1")
	require.NoError(t, err)
	defer release()

	_, err = fx.svc.DeleteProject(context.Background(), admin, "P1", DeleteOptions{Confirmer: prompt.NewStatic(true)})
	assert.ErrorIs(t, err, ErrDeleteInProgress)
	assert.Equal(t, 1, fx.store.Len(store.TableProjects))
}

func TestDeleteProjectLookupErrors(t *testing.T) {
	fx := newProjectFixture(t)

	_, err := fx.svc.DeleteProject(context.Background(), admin, "missing", DeleteOptions{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fx.svc.DeleteProject(context.Background(), admin, "", DeleteOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fx.deletions.entries)
}

func TestPreviewDelete(t *testing.T) {
	fx := newProjectFixture(t)

	preview, err := fx.svc.PreviewDelete(context.Background(), admin, "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), preview.Total)
	assert.Equal(t, "This project has 5 panel(s), 3 facade(s), 2 building(s) associated with it. Deleting the project will also delete all associated data. Are you sure you want to continue?", preview.Message)
	for _, op := range fx.store.Journal() {
		assert.NotEqual(t, memstore.OpDelete, op.Kind, "preview must not delete")
	}

	_, err = fx.svc.PreviewDelete(context.Background(), tenantTwo, "P1")
	assert.ErrorIs(t, err, cascade.ErrUnauthorized)
	assert.Equal(t, 5, fx.store.Len(store.TablePanels))
}

func TestGetProjectHidesOtherTenants(t *testing.T) {
	fx := newProjectFixture(t)

	project, err := fx.svc.GetProject(context.Background(), tenantOne, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Harbour Tower", project.Name)

	_, err = fx.svc.GetProject(context.Background(), tenantTwo, "P1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fx.svc.GetProject(context.Background(), tenantOne, "P2")
	assert.ErrorIs(t, err, ErrNotFound, "unassigned projects are invisible to customer users")
}

func TestListProjectsScopesToTenant(t *testing.T) {
	fx := newProjectFixture(t)

	all, err := fx.svc.ListProjects(context.Background(), admin, dto.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalCount)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 10, all.PageSize)
	assert.Equal(t, 1, all.TotalPages)

	own, err := fx.svc.ListProjects(context.Background(), tenantOne, dto.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, own.Projects, 1)
	assert.Equal(t, "P1", own.Projects[0].ID)

	none, err := fx.svc.ListProjects(context.Background(), tenantTwo, dto.ProjectFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none.Projects)
	assert.Empty(t, none.Projects)
}

func TestCreateProject(t *testing.T) {
	fx := newProjectFixture(t)
	ctx := context.Background()

	t.Run("customer users create for their own customer", func(t *testing.T) {
		p, err := fx.svc.CreateProject(ctx, tenantOne, dto.CreateProjectRequest{
			Name:       "Riverside",
			CustomerID: strPtr("T9"),
			StartDate:  strPtr("2026-03-01"),
			EndDate:    strPtr("2026-09-30"),
		})
		require.NoError(t, err)
		assert.Equal(t, "T1", p.Tenant())
		assert.Equal(t, models.ProjectStatusPlanned, p.Status)
		require.NotNil(t, p.StartDate)
		assert.Equal(t, time.March, p.StartDate.Month())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := fx.svc.CreateProject(ctx, admin, dto.CreateProjectRequest{
			Name:      "Backwards",
			StartDate: strPtr("2026-09-30"),
			EndDate:   strPtr("2026-03-01"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := fx.svc.CreateProject(ctx, admin, dto.CreateProjectRequest{Name: "Orphan", CustomerID: strPtr("nope")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := fx.svc.CreateProject(ctx, admin, dto.CreateProjectRequest{Name: "Odd", Status: "paused"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("customer user without customer", func(t *testing.T) {
		_, err := fx.svc.CreateProject(ctx, access.Principal{UserID: "u", Role: models.RoleCustomer}, dto.CreateProjectRequest{Name: "Lost"})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUpdateProject(t *testing.T) {
	fx := newProjectFixture(t)

	p, err := fx.svc.UpdateProject(context.Background(), admin, "P2", dto.UpdateProjectRequest{
		Name:       "Office Park II",
		Status:     string(models.ProjectStatusInProgress),
		CustomerID: strPtr("T1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Office Park II", p.Name)
	assert.Equal(t, models.ProjectStatusInProgress, p.Status)
	assert.Equal(t, "T1", p.Tenant())

	_, err = fx.svc.UpdateProject(context.Background(), tenantTwo, "P1", dto.UpdateProjectRequest{Name: "Hijack"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDeletions(t *testing.T) {
	fx := newProjectFixture(t)
	_, err := fx.svc.DeleteProject(context.Background(), admin, "P1", DeleteOptions{Confirmer: prompt.NewStatic(true)})
	require.NoError(t, err)

	list, err := fx.svc.ListDeletions(context.Background(), dto.DeletionLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, "deleted", list.Entries[0].Outcome)
}
