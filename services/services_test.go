package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, "test-secret", time.Hour, quietLog())
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "secret1", Username: strPtr("ana")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, user.Role)
	assert.NotEqual(t, "secret1", user.Password)

	_, err = svc.Register(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Register(ctx, dto.RegisterRequest{Email: "other@example.com", Password: "secret1", Username: strPtr("ana")})
	assert.ErrorIs(t, err, ErrConflict)

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Empty(t, resp.User.Password)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "viewer", claims.Role)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := NewAuthService(newFakeUsers(), "test-secret", time.Minute, quietLog())
	token, _, err := svc.GenerateToken("u1", "u1@example.com", "customer", "T1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "T1", claims.CustomerID)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	other := NewAuthService(newFakeUsers(), "another-secret", time.Minute, quietLog())
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	unset := NewAuthService(newFakeUsers(), "", time.Minute, quietLog())
	_, _, err = unset.GenerateToken("u1", "u1@example.com", "admin", "")
	assert.Error(t, err)
}

func TestLoginCarriesCustomerClaim(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw1234"), bcrypt.MinCost)
	require.NoError(t, err)
	users := newFakeUsers(models.User{ID: "u1", Email: "c@example.com", Password: string(hash), Role: models.RoleCustomer, CustomerID: strPtr("T1")})
	svc := NewAuthService(users, "test-secret", time.Hour, quietLog())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "c@example.com", Password: "pw1234"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "T1", claims.CustomerID)
	assert.Equal(t, "customer", claims.Role)
}

func TestExportProjectsWorkbook(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	projects := newFakeProjects(
		models.Project{ID: "P1", Name: "Harbour Tower", Status: models.ProjectStatusInProgress, StartDate: &start, CustomerID: strPtr("T1"), Customer: &models.Customer{Name: "Acme"}},
		models.Project{ID: "P2", Name: "Office Park", Status: models.ProjectStatusPlanned},
	)
	svc := NewExportService(projects)

	data, err := svc.ExportProjects(context.Background(), tenantOne, dto.ProjectFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Projects")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus the one visible project")
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "P1", rows[1][0])
	assert.Equal(t, "Harbour Tower", rows[1][1])
	assert.Equal(t, "in_progress", rows[1][3])
	assert.Equal(t, "2026-03-01", rows[1][4])
	assert.Equal(t, "Acme", rows[1][8])
}

func TestCustomerService(t *testing.T) {
	customers := newFakeCustomers()
	svc := NewCustomerService(customers, quietLog())
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, dto.CustomerRequest{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "active", c.Status)

	c, err = svc.UpdateCustomer(ctx, c.ID, dto.CustomerRequest{Name: "Acme Ltd", Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", c.Name)
	assert.Equal(t, "inactive", c.Status)

	_, err = svc.GetCustomer(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	customers.deleteErr = gorm.ErrForeignKeyViolated
	assert.ErrorIs(t, svc.DeleteCustomer(ctx, c.ID), ErrConflict)

	customers.deleteErr = errors.New("connection reset")
	err = svc.DeleteCustomer(ctx, c.ID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)

	customers.deleteErr = nil
	require.NoError(t, svc.DeleteCustomer(ctx, c.ID))
	assert.ErrorIs(t, svc.DeleteCustomer(ctx, c.ID), ErrNotFound)

	list, err := svc.ListCustomers(ctx, dto.CustomerFilter{})
	require.NoError(t, err)
	assert.NotNil(t, list.Customers)
	assert.Zero(t, list.TotalCount)
}

func TestNoteServiceScopesToTenant(t *testing.T) {
	notes := &fakeNotes{rows: make(map[string]models.Note)}
	svc := NewNoteService(notes)
	ctx := context.Background()

	own, err := svc.CreateNote(ctx, tenantOne, dto.NoteRequest{Title: "Crane booked", Pinned: true})
	require.NoError(t, err)
	require.NotNil(t, own.AuthorID)
	assert.Equal(t, "u-t1", *own.AuthorID)
	require.NotNil(t, own.CustomerID)
	assert.Equal(t, "T1", *own.CustomerID)

	global, err := svc.CreateNote(ctx, admin, dto.NoteRequest{Title: "Office closed Friday"})
	require.NoError(t, err)
	assert.Nil(t, global.CustomerID)

	_, err = svc.GetNote(ctx, tenantTwo, own.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.UpdateNote(ctx, tenantTwo, own.ID, dto.NoteRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteNote(ctx, tenantTwo, own.ID), ErrNotFound)

	updated, err := svc.UpdateNote(ctx, tenantOne, own.ID, dto.NoteRequest{Title: "Crane moved", Content: "to Tuesday"})
	require.NoError(t, err)
	assert.Equal(t, "Crane moved", updated.Title)
	assert.False(t, updated.Pinned)

	list, err := svc.ListNotes(ctx, admin, dto.NoteFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)

	list, err = svc.ListNotes(ctx, tenantTwo, dto.NoteFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)

	require.NoError(t, svc.DeleteNote(ctx, tenantOne, own.ID))
}

func TestUserService(t *testing.T) {
	users := newFakeUsers(
		models.User{ID: "u-admin", Email: "admin@example.com", Role: models.RoleAdmin},
		models.User{ID: "u2", Email: "b@example.com", Role: models.RoleViewer},
	)
	svc := NewUserService(users, newFakeCustomers(models.Customer{ID: "T1"}), quietLog())
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, "u2", dto.UpdateUserRequest{Role: "customer"})
	assert.ErrorIs(t, err, ErrInvalidInput, "customer users need a customer")

	_, err = svc.UpdateUser(ctx, "u2", dto.UpdateUserRequest{Role: "customer", CustomerID: strPtr("T9")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateUser(ctx, "u2", dto.UpdateUserRequest{Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	u, err := svc.UpdateUser(ctx, "u2", dto.UpdateUserRequest{Role: "customer", CustomerID: strPtr("T1"), Name: strPtr("Bea")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, u.Role)
	assert.Equal(t, "T1", *u.CustomerID)
	assert.Equal(t, "Bea", *u.Name)

	_, err = svc.UpdateUser(ctx, "missing", dto.UpdateUserRequest{Role: "viewer"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, "u-admin"), ErrInvalidInput)
	require.NoError(t, svc.DeleteUser(ctx, admin, "u2"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, "u2"), ErrNotFound)

	list, err := svc.ListUsers(ctx, dto.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
}

func TestStructureServiceInheritsTenant(t *testing.T) {
	fx := newProjectFixture(t)
	structures := newFakeStructures()
	svc := NewStructureService(fx.svc, structures)
	ctx := context.Background()

	building, err := svc.CreateBuilding(ctx, tenantOne, "P1", dto.CreateBuildingRequest{Name: "North wing"})
	require.NoError(t, err)
	assert.Equal(t, 1, building.Floors)
	require.NotNil(t, building.CustomerID)
	assert.Equal(t, "T1", *building.CustomerID)

	facade, err := svc.CreateFacade(ctx, tenantOne, building.ID, dto.CreateFacadeRequest{Name: "South face", Orientation: "S", AreaSqm: 120.5})
	require.NoError(t, err)
	assert.Equal(t, building.ID, facade.BuildingID)
	assert.Equal(t, "T1", *facade.CustomerID)

	panel, err := svc.CreatePanel(ctx, tenantOne, "P1", dto.CreatePanelRequest{Reference: "PN-001", WidthMM: 1200, HeightMM: 3000})
	require.NoError(t, err)
	assert.Equal(t, "designed", panel.Status)
	assert.Equal(t, "T1", *panel.CustomerID)

	_, err = svc.CreateBuilding(ctx, tenantTwo, "P1", dto.CreateBuildingRequest{Name: "Intruder"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.CreateFacade(ctx, tenantTwo, building.ID, dto.CreateFacadeRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	buildings, err := svc.ListBuildings(ctx, tenantOne, "P1")
	require.NoError(t, err)
	assert.Len(t, buildings, 1)

	facades, err := svc.ListFacades(ctx, tenantOne, building.ID)
	require.NoError(t, err)
	assert.Len(t, facades, 1)

	panels, err := svc.ListPanels(ctx, admin, "P2")
	require.NoError(t, err)
	assert.NotNil(t, panels)
	assert.Empty(t, panels)
}
