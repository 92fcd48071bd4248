package services

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
	"github.com/facade-admin/repositories"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.Out = io.Discard
	return logrus.NewEntry(l)
}

func strPtr(s string) *string { return &s }

type fakeProjects struct {
	mu   sync.Mutex
	rows map[string]models.Project
	err  error
}

func newFakeProjects(projects ...models.Project) *fakeProjects {
	f := &fakeProjects{rows: make(map[string]models.Project)}
	for _, p := range projects {
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakeProjects) FindByID(_ context.Context, id string) (models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Project{}, f.err
	}
	p, ok := f.rows[id]
	if !ok {
		return models.Project{}, repositories.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjects) Create(_ context.Context, project models.Project) (models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	f.rows[project.ID] = project
	return project, nil
}

func (f *fakeProjects) Update(_ context.Context, project models.Project) (models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[project.ID] = project
	return project, nil
}

func (f *fakeProjects) visible(filter dto.ProjectFilter) []models.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.rows {
		if filter.Scope.IsRestricted() && p.Tenant() != filter.Scope.TenantID() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeProjects) FindWithPagination(_ context.Context, filter dto.ProjectFilter) ([]models.Project, int64, error) {
	all := f.visible(filter)
	return all, int64(len(all)), nil
}

func (f *fakeProjects) FindAllFiltered(_ context.Context, filter dto.ProjectFilter, limit int) ([]models.Project, error) {
	all := f.visible(filter)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeCustomers struct {
	rows      map[string]models.Customer
	deleteErr error
}

func newFakeCustomers(customers ...models.Customer) *fakeCustomers {
	f := &fakeCustomers{rows: make(map[string]models.Customer)}
	for _, c := range customers {
		f.rows[c.ID] = c
	}
	return f
}

func (f *fakeCustomers) FindByID(_ context.Context, id string) (models.Customer, error) {
	c, ok := f.rows[id]
	if !ok {
		return models.Customer{}, repositories.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomers) FindWithPagination(_ context.Context, _ dto.CustomerFilter) ([]models.Customer, int64, error) {
	var out []models.Customer
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomers) Create(_ context.Context, customer models.Customer) (models.Customer, error) {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	f.rows[customer.ID] = customer
	return customer, nil
}

func (f *fakeCustomers) Update(_ context.Context, customer models.Customer) (models.Customer, error) {
	f.rows[customer.ID] = customer
	return customer, nil
}

func (f *fakeCustomers) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeDeletions struct {
	mu      sync.Mutex
	entries []models.DeletionLog
}

func (f *fakeDeletions) Create(_ context.Context, entry models.DeletionLog) (models.DeletionLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uuid.NewString()
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeDeletions) FindWithPagination(_ context.Context, _ dto.DeletionLogFilter) ([]models.DeletionLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.DeletionLog, len(f.entries))
	copy(out, f.entries)
	return out, int64(len(out)), nil
}

type fakeUsers struct {
	rows map[string]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{rows: make(map[string]models.User)}
	for _, u := range users {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range f.rows {
		if u.Username != nil && *u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) FindWithPagination(_ context.Context, _ dto.UserFilter) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.rows {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUsers) Create(_ context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.rows[user.ID] = user
	return user, nil
}

func (f *fakeUsers) Update(_ context.Context, user models.User) (models.User, error) {
	f.rows[user.ID] = user
	return user, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeNotes struct {
	rows map[string]models.Note
}

func (f *fakeNotes) visible(n models.Note, scope access.Scope) bool {
	tenant := ""
	if n.CustomerID != nil {
		tenant = *n.CustomerID
	}
	return !scope.IsRestricted() || tenant == scope.TenantID()
}

func (f *fakeNotes) FindByID(_ context.Context, id string, scope access.Scope) (models.Note, error) {
	n, ok := f.rows[id]
	if !ok || !f.visible(n, scope) {
		return models.Note{}, repositories.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotes) FindWithPagination(_ context.Context, filter dto.NoteFilter) ([]models.Note, int64, error) {
	var out []models.Note
	for _, n := range f.rows {
		if f.visible(n, filter.Scope) {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotes) Create(_ context.Context, note models.Note) (models.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	f.rows[note.ID] = note
	return note, nil
}

func (f *fakeNotes) Update(_ context.Context, note models.Note) (models.Note, error) {
	f.rows[note.ID] = note
	return note, nil
}

func (f *fakeNotes) Delete(ctx context.Context, id string, scope access.Scope) error {
	if _, err := f.FindByID(ctx, id, scope); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

type fakeStructures struct {
	buildings map[string]models.Building
	facades   []models.Facade
	panels    []models.Panel
}

func newFakeStructures() *fakeStructures {
	return &fakeStructures{buildings: make(map[string]models.Building)}
}

func (f *fakeStructures) ListBuildings(_ context.Context, projectID string, _ access.Scope) ([]models.Building, error) {
	var out []models.Building
	for _, b := range f.buildings {
		if b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStructures) FindBuilding(_ context.Context, id string, scope access.Scope) (models.Building, error) {
	b, ok := f.buildings[id]
	if !ok {
		return models.Building{}, repositories.ErrNotFound
	}
	tenant := ""
	if b.CustomerID != nil {
		tenant = *b.CustomerID
	}
	if !scope.Allows(tenant) {
		return models.Building{}, repositories.ErrNotFound
	}
	return b, nil
}

func (f *fakeStructures) CreateBuilding(_ context.Context, building models.Building) (models.Building, error) {
	building.ID = uuid.NewString()
	f.buildings[building.ID] = building
	return building, nil
}

func (f *fakeStructures) ListFacades(_ context.Context, buildingID string, _ access.Scope) ([]models.Facade, error) {
	var out []models.Facade
	for _, fc := range f.facades {
		if fc.BuildingID == buildingID {
			out = append(out, fc)
		}
	}
	return out, nil
}

func (f *fakeStructures) CreateFacade(_ context.Context, facade models.Facade) (models.Facade, error) {
	facade.ID = uuid.NewString()
	f.facades = append(f.facades, facade)
	return facade, nil
}

func (f *fakeStructures) ListPanels(_ context.Context, projectID string, _ access.Scope) ([]models.Panel, error) {
	var out []models.Panel
	for _, p := range f.panels {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStructures) CreatePanel(_ context.Context, panel models.Panel) (models.Panel, error) {
	panel.ID = uuid.NewString()
	f.panels = append(f.panels, panel)
	return panel, nil
}
