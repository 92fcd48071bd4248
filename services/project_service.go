package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/facade-admin/access"
	"github.com/facade-admin/cascade"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/guard"
	"github.com/facade-admin/models"
	"github.com/facade-admin/repositories"
)

// ProjectStore is the project persistence ProjectService needs
type ProjectStore interface {
	FindByID(ctx context.Context, id string) (models.Project, error)
	Create(ctx context.Context, project models.Project) (models.Project, error)
	Update(ctx context.Context, project models.Project) (models.Project, error)
	FindWithPagination(ctx context.Context, filter dto.ProjectFilter) ([]models.Project, int64, error)
	FindAllFiltered(ctx context.Context, filter dto.ProjectFilter, limit int) ([]models.Project, error)
}

// CustomerLookup resolves customers by id
type CustomerLookup interface {
	FindByID(ctx context.Context, id string) (models.Customer, error)
}

// DeletionLogStore persists the audit trail of cascading deletes
type DeletionLogStore interface {
	Create(ctx context.Context, entry models.DeletionLog) (models.DeletionLog, error)
	FindWithPagination(ctx context.Context, filter dto.DeletionLogFilter) ([]models.DeletionLog, int64, error)
}

// DeleteOptions controls one cascading delete
type DeleteOptions struct {
	// Confirmer answers the blast radius question
	Confirmer cascade.Confirmer
	// AuditCancellation also records Cancelled outcomes in the deletion log
	AuditCancellation bool
}

// ProjectService handles business logic for projects
type ProjectService struct {
	projects  ProjectStore
	customers CustomerLookup
	deletions DeletionLogStore
	deleter   *cascade.Deleter
	inflight  guard.Guard
	log       *logrus.Entry
}

// NewProjectService creates a new project service instance
func NewProjectService(
	projects ProjectStore,
	customers CustomerLookup,
	deletions DeletionLogStore,
	deleter *cascade.Deleter,
	inflight guard.Guard,
	log *logrus.Entry,
) *ProjectService {
	return &ProjectService{
		projects:  projects,
		customers: customers,
		deletions: deletions,
		deleter:   deleter,
		inflight:  inflight,
		log:       log,
	}
}

// ListProjects retrieves projects with pagination, filtering and sorting.
// Customer users only see their own customer's projects.
func (s *ProjectService) ListProjects(ctx context.Context, principal access.Principal, filter dto.ProjectFilter) (dto.ProjectListResponse, error) {
	filter.Scope = principal.Scope()
	filter.Pagination = filter.Pagination.Normalize()

	projects, totalCount, err := s.projects.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.ProjectListResponse{}, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}

	return dto.ProjectListResponse{
		Projects:   projects,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: filter.Pagination.TotalPages(totalCount),
	}, nil
}

// GetProject retrieves a project visible to principal
func (s *ProjectService) GetProject(ctx context.Context, principal access.Principal, id string) (models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.Project{}, ErrNotFound
		}
		return models.Project{}, fmt.Errorf("find project: %w", err)
	}
	if !principal.Scope().Allows(project.Tenant()) {
		return models.Project{}, ErrNotFound
	}
	return project, nil
}

// CreateProject creates a project. Customer users always create projects
// for their own customer.
func (s *ProjectService) CreateProject(ctx context.Context, principal access.Principal, req dto.CreateProjectRequest) (models.Project, error) {
	project := models.Project{Status: models.ProjectStatusPlanned}
	if err := s.apply(ctx, principal, &project, req); err != nil {
		return models.Project{}, err
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	s.log.WithFields(logrus.Fields{"project_id": created.ID, "user_id": principal.UserID}).Info("Project created")
	return created, nil
}

// UpdateProject replaces the editable fields of a project
func (s *ProjectService) UpdateProject(ctx context.Context, principal access.Principal, id string, req dto.UpdateProjectRequest) (models.Project, error) {
	project, err := s.GetProject(ctx, principal, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := s.apply(ctx, principal, &project, dto.CreateProjectRequest(req)); err != nil {
		return models.Project{}, err
	}
	// the loaded relation would otherwise be saved over the new customer id
	project.Customer = nil

	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

func (s *ProjectService) apply(ctx context.Context, principal access.Principal, project *models.Project, req dto.CreateProjectRequest) error {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end date must not be before start date", ErrInvalidInput)
	}

	project.Name = req.Name
	project.Location = req.Location
	project.StartDate = start
	project.EndDate = end
	if req.Status != "" {
		status := models.ProjectStatus(req.Status)
		if !status.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
		}
		project.Status = status
	}
	if req.Cost != nil {
		project.Cost = *req.Cost
	}
	if req.EstimatedPanels != nil {
		project.EstimatedPanels = *req.EstimatedPanels
	}

	scope := principal.Scope()
	if scope.IsRestricted() {
		tenant := scope.TenantID()
		if tenant == "" {
			return fmt.Errorf("%w: user is not linked to a customer", ErrForbidden)
		}
		project.CustomerID = &tenant
		return nil
	}
	if req.CustomerID == nil || *req.CustomerID == "" {
		project.CustomerID = nil
		return nil
	}
	if _, err := s.customers.FindByID(ctx, *req.CustomerID); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: customer %s does not exist", ErrInvalidInput, *req.CustomerID)
		}
		return fmt.Errorf("find customer: %w", err)
	}
	customerID := *req.CustomerID
	project.CustomerID = &customerID
	return nil
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, *value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, *value)
	}
	return &t, nil
}

// PreviewDelete reports what deleting the project would remove
func (s *ProjectService) PreviewDelete(ctx context.Context, principal access.Principal, id string) (dto.DependentsResponse, error) {
	project, err := s.findForDelete(ctx, id)
	if err != nil {
		return dto.DependentsResponse{}, err
	}
	counts, err := s.deleter.Preview(ctx, targetOf(project), principal.Scope())
	if err != nil {
		return dto.DependentsResponse{}, err
	}
	return dto.DependentsResponse{
		ProjectID: project.ID,
		Counts:    counts,
		Total:     counts.Total(),
		Message:   cascade.ConfirmationMessage(counts),
	}, nil
}

// DeleteProject runs the cascading delete of a project. Only one delete per
// project runs at a time; a concurrent call gets ErrDeleteInProgress. The
// returned error is set only when the delete could not start; every other
// result is described by the outcome.
func (s *ProjectService) DeleteProject(ctx context.Context, principal access.Principal, id string, opts DeleteOptions) (cascade.Outcome, error) {
	release, err := s.inflight.Acquire(ctx, "project:"+id)
	if err != nil {
		if errors.Is(err, guard.ErrBusy) {
			return cascade.Outcome{}, ErrDeleteInProgress
		}
		return cascade.Outcome{}, fmt.Errorf("acquire delete lock: %w", err)
	}
	defer release()

	project, err := s.findForDelete(ctx, id)
	if err != nil {
		return cascade.Outcome{}, err
	}

	out := s.deleter.WithConfirmer(opts.Confirmer).DeleteProject(ctx, targetOf(project), principal.Scope())
	if out.Kind != cascade.Cancelled || opts.AuditCancellation {
		s.audit(ctx, principal, project, out)
	}
	return out, nil
}

// ListDeletions lists the deletion audit log
func (s *ProjectService) ListDeletions(ctx context.Context, filter dto.DeletionLogFilter) (dto.DeletionLogListResponse, error) {
	filter.Pagination = filter.Pagination.Normalize()
	entries, totalCount, err := s.deletions.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.DeletionLogListResponse{}, fmt.Errorf("list deletions: %w", err)
	}
	if entries == nil {
		entries = []models.DeletionLog{}
	}
	return dto.DeletionLogListResponse{
		Entries:    entries,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: filter.Pagination.TotalPages(totalCount),
	}, nil
}

func (s *ProjectService) findForDelete(ctx context.Context, id string) (models.Project, error) {
	if id == "" {
		return models.Project{}, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.Project{}, ErrNotFound
		}
		return models.Project{}, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) audit(ctx context.Context, principal access.Principal, project models.Project, out cascade.Outcome) {
	details := datatypes.JSONMap{
		"completed":  out.Completed,
		"referenced": out.Referenced,
	}
	if out.Entity != "" {
		details["entity"] = out.Entity
	}
	if out.Message != "" {
		details["message"] = out.Message
	}
	if out.Err != nil {
		details["error"] = out.Err.Error()
	}

	entry := models.DeletionLog{
		ProjectID:        project.ID,
		ProjectName:      project.Name,
		CustomerID:       project.CustomerID,
		ActorID:          principal.UserID,
		Outcome:          out.Kind.String(),
		Stage:            out.Stage,
		RemovedPanels:    out.Counts.Panels,
		RemovedBuildings: out.Counts.Buildings,
		RemovedFacades:   out.Counts.Facades,
		Details:          details,
	}
	if !out.OK() {
		entry.RemovedPanels, entry.RemovedBuildings, entry.RemovedFacades = 0, 0, 0
		details["discovered"] = out.Counts
	}
	if out.Kind == cascade.Unauthorized {
		// the actor may not see the project, so only its id is recorded
		entry.ProjectName, entry.CustomerID = "", nil
		delete(details, "discovered")
	}
	if _, err := s.deletions.Create(ctx, entry); err != nil {
		s.log.WithError(err).WithField("project_id", project.ID).Warn("Failed to write deletion log")
	}
}

func targetOf(project models.Project) cascade.Target {
	return cascade.Target{ID: project.ID, CustomerID: project.Tenant()}
}
