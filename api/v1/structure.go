package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/services"
)

// StructureController handles buildings, facades and panels
type StructureController struct {
	structures *services.StructureService
}

// NewStructureController creates a new structure controller
func NewStructureController(structures *services.StructureService) *StructureController {
	return &StructureController{structures: structures}
}

// RegisterRoutes registers structure routes
func (sc *StructureController) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequirePermission(access.ResourceStructures, access.ActionRead)
	create := middleware.RequirePermission(access.ResourceStructures, access.ActionCreate)

	projects := router.Group("/projects")
	{
		projects.GET("/:id/buildings", read, sc.ListBuildings)
		projects.POST("/:id/buildings", create, sc.CreateBuilding)
		projects.GET("/:id/panels", read, sc.ListPanels)
		projects.POST("/:id/panels", create, sc.CreatePanel)
	}

	buildings := router.Group("/buildings")
	{
		buildings.GET("/:id/facades", read, sc.ListFacades)
		buildings.POST("/:id/facades", create, sc.CreateFacade)
	}
}

// ListBuildings lists the buildings of a project
func (sc *StructureController) ListBuildings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	buildings, err := sc.structures.ListBuildings(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, buildings)
}

// CreateBuilding adds a building to a project
func (sc *StructureController) CreateBuilding(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	building, err := sc.structures.CreateBuilding(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, building)
}

// ListPanels lists the panels of a project
func (sc *StructureController) ListPanels(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	panels, err := sc.structures.ListPanels(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, panels)
}

// CreatePanel adds a panel to a project
func (sc *StructureController) CreatePanel(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	panel, err := sc.structures.CreatePanel(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, panel)
}

// ListFacades lists the facades of a building
func (sc *StructureController) ListFacades(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	facades, err := sc.structures.ListFacades(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, facades)
}

// CreateFacade adds a facade to a building
func (sc *StructureController) CreateFacade(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreateFacadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	facade, err := sc.structures.CreateFacade(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, facade)
}
