package services

import (
	"context"
	"fmt"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
	"github.com/facade-admin/repositories"
)

// StructureStore is the persistence of buildings, facades and panels
type StructureStore interface {
	ListBuildings(ctx context.Context, projectID string, scope access.Scope) ([]models.Building, error)
	FindBuilding(ctx context.Context, id string, scope access.Scope) (models.Building, error)
	CreateBuilding(ctx context.Context, building models.Building) (models.Building, error)
	ListFacades(ctx context.Context, buildingID string, scope access.Scope) ([]models.Facade, error)
	CreateFacade(ctx context.Context, facade models.Facade) (models.Facade, error)
	ListPanels(ctx context.Context, projectID string, scope access.Scope) ([]models.Panel, error)
	CreatePanel(ctx context.Context, panel models.Panel) (models.Panel, error)
}

// StructureService manages the buildings, facades and panels of projects.
// New rows inherit the customer of their parent so tenant filters match.
type StructureService struct {
	projects   *ProjectService
	structures StructureStore
}

// NewStructureService creates a new structure service instance
func NewStructureService(projects *ProjectService, structures StructureStore) *StructureService {
	return &StructureService{projects: projects, structures: structures}
}

// ListBuildings returns the buildings of a project
func (s *StructureService) ListBuildings(ctx context.Context, principal access.Principal, projectID string) ([]models.Building, error) {
	if _, err := s.projects.GetProject(ctx, principal, projectID); err != nil {
		return nil, err
	}
	buildings, err := s.structures.ListBuildings(ctx, projectID, principal.Scope())
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	if buildings == nil {
		buildings = []models.Building{}
	}
	return buildings, nil
}

// CreateBuilding adds a building to a project
func (s *StructureService) CreateBuilding(ctx context.Context, principal access.Principal, projectID string, req dto.CreateBuildingRequest) (models.Building, error) {
	project, err := s.projects.GetProject(ctx, principal, projectID)
	if err != nil {
		return models.Building{}, err
	}
	floors := req.Floors
	if floors <= 0 {
		floors = 1
	}
	building, err := s.structures.CreateBuilding(ctx, models.Building{
		Name:        req.Name,
		Description: req.Description,
		Floors:      floors,
		ProjectID:   project.ID,
		CustomerID:  project.CustomerID,
	})
	if err != nil {
		return models.Building{}, fmt.Errorf("create building: %w", err)
	}
	return building, nil
}

// ListFacades returns the facades of a building
func (s *StructureService) ListFacades(ctx context.Context, principal access.Principal, buildingID string) ([]models.Facade, error) {
	if _, err := s.findBuilding(ctx, principal, buildingID); err != nil {
		return nil, err
	}
	facades, err := s.structures.ListFacades(ctx, buildingID, principal.Scope())
	if err != nil {
		return nil, fmt.Errorf("list facades: %w", err)
	}
	if facades == nil {
		facades = []models.Facade{}
	}
	return facades, nil
}

// CreateFacade adds a facade to a building
func (s *StructureService) CreateFacade(ctx context.Context, principal access.Principal, buildingID string, req dto.CreateFacadeRequest) (models.Facade, error) {
	building, err := s.findBuilding(ctx, principal, buildingID)
	if err != nil {
		return models.Facade{}, err
	}
	facade, err := s.structures.CreateFacade(ctx, models.Facade{
		Name:        req.Name,
		Orientation: req.Orientation,
		AreaSqm:     req.AreaSqm,
		BuildingID:  building.ID,
		CustomerID:  building.CustomerID,
	})
	if err != nil {
		return models.Facade{}, fmt.Errorf("create facade: %w", err)
	}
	return facade, nil
}

// ListPanels returns the panels of a project
func (s *StructureService) ListPanels(ctx context.Context, principal access.Principal, projectID string) ([]models.Panel, error) {
	if _, err := s.projects.GetProject(ctx, principal, projectID); err != nil {
		return nil, err
	}
	panels, err := s.structures.ListPanels(ctx, projectID, principal.Scope())
	if err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}
	if panels == nil {
		panels = []models.Panel{}
	}
	return panels, nil
}

// CreatePanel adds a panel to a project
func (s *StructureService) CreatePanel(ctx context.Context, principal access.Principal, projectID string, req dto.CreatePanelRequest) (models.Panel, error) {
	project, err := s.projects.GetProject(ctx, principal, projectID)
	if err != nil {
		return models.Panel{}, err
	}
	status := req.Status
	if status == "" {
		status = "designed"
	}
	panel, err := s.structures.CreatePanel(ctx, models.Panel{
		Reference:  req.Reference,
		PanelType:  req.PanelType,
		WidthMM:    req.WidthMM,
		HeightMM:   req.HeightMM,
		Status:     status,
		ProjectID:  project.ID,
		CustomerID: project.CustomerID,
	})
	if err != nil {
		return models.Panel{}, fmt.Errorf("create panel: %w", err)
	}
	return panel, nil
}

func (s *StructureService) findBuilding(ctx context.Context, principal access.Principal, id string) (models.Building, error) {
	building, err := s.structures.FindBuilding(ctx, id, principal.Scope())
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.Building{}, ErrNotFound
		}
		return models.Building{}, fmt.Errorf("find building: %w", err)
	}
	return building, nil
}
