package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/facade-admin/access"
	"github.com/facade-admin/models"
)

// StructureRepository handles buildings, facades and panels
type StructureRepository struct {
	db *gorm.DB
}

// NewStructureRepository creates a new structure repository instance
func NewStructureRepository(db *gorm.DB) *StructureRepository {
	return &StructureRepository{db: db}
}

// ListBuildings returns the buildings of a project visible in scope
func (r *StructureRepository) ListBuildings(ctx context.Context, projectID string, scope access.Scope) ([]models.Building, error) {
	var buildings []models.Building
	err := scoped(r.db.WithContext(ctx), scope).
		Where("project_id = ?", projectID).
		Order("name asc").
		Find(&buildings).Error
	return buildings, err
}

// FindBuilding retrieves a building visible in scope
func (r *StructureRepository) FindBuilding(ctx context.Context, id string, scope access.Scope) (models.Building, error) {
	var building models.Building
	result := scoped(r.db.WithContext(ctx), scope).First(&building, "id = ?", id)
	return building, result.Error
}

// CreateBuilding inserts a building
func (r *StructureRepository) CreateBuilding(ctx context.Context, building models.Building) (models.Building, error) {
	result := r.db.WithContext(ctx).Create(&building)
	return building, result.Error
}

// ListFacades returns the facades of a building visible in scope
func (r *StructureRepository) ListFacades(ctx context.Context, buildingID string, scope access.Scope) ([]models.Facade, error) {
	var facades []models.Facade
	err := scoped(r.db.WithContext(ctx), scope).
		Where("building_id = ?", buildingID).
		Order("name asc").
		Find(&facades).Error
	return facades, err
}

// CreateFacade inserts a facade
func (r *StructureRepository) CreateFacade(ctx context.Context, facade models.Facade) (models.Facade, error) {
	result := r.db.WithContext(ctx).Create(&facade)
	return facade, result.Error
}

// ListPanels returns the panels of a project visible in scope
func (r *StructureRepository) ListPanels(ctx context.Context, projectID string, scope access.Scope) ([]models.Panel, error) {
	var panels []models.Panel
	err := scoped(r.db.WithContext(ctx), scope).
		Where("project_id = ?", projectID).
		Order("reference asc").
		Find(&panels).Error
	return panels, err
}

// CreatePanel inserts a panel
func (r *StructureRepository) CreatePanel(ctx context.Context, panel models.Panel) (models.Panel, error) {
	result := r.db.WithContext(ctx).Create(&panel)
	return panel, result.Error
}
