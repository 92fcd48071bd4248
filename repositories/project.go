package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

// ProjectSortColumns lists the columns projects can be sorted by
var ProjectSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"start_date": true,
	"cost":       true,
	"status":     true,
}

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID retrieves a project by its ID regardless of tenant
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	result := r.db.WithContext(ctx).First(&project, "id = ?", id)
	return project, result.Error
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(ctx context.Context, project models.Project) (models.Project, error) {
	result := r.db.WithContext(ctx).Create(&project)
	return project, result.Error
}

// Update modifies an existing project
func (r *ProjectRepository) Update(ctx context.Context, project models.Project) (models.Project, error) {
	result := r.db.WithContext(ctx).Save(&project)
	return project, result.Error
}

// FindWithPagination retrieves projects with pagination, filtering and sorting
func (r *ProjectRepository) FindWithPagination(ctx context.Context, filter dto.ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project
	var totalCount int64

	db := r.filtered(r.db.WithContext(ctx), filter)

	// Count total records (with the same filter)
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Pagination.Normalize()
	order := orderBy(filter.SortBy, filter.SortOrder, ProjectSortColumns, "created_at")
	if err := db.Order(order).Limit(page.PageSize).Offset(page.Offset()).Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, totalCount, nil
}

// FindAllFiltered retrieves up to limit projects matching filter, ignoring pagination
func (r *ProjectRepository) FindAllFiltered(ctx context.Context, filter dto.ProjectFilter, limit int) ([]models.Project, error) {
	var projects []models.Project
	order := orderBy(filter.SortBy, filter.SortOrder, ProjectSortColumns, "created_at")
	err := r.filtered(r.db.WithContext(ctx), filter).
		Preload("Customer").
		Order(order).
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) filtered(db *gorm.DB, filter dto.ProjectFilter) *gorm.DB {
	db = scoped(db.Model(&models.Project{}), filter.Scope)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		db = db.Where("(name ILIKE ? OR location ILIKE ?)", pattern, pattern)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}
	return db
}
