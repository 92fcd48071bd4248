package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/services"
)

// DeletionController exposes the cascading delete audit log
type DeletionController struct {
	projects *services.ProjectService
}

// NewDeletionController creates a new deletion log controller
func NewDeletionController(projects *services.ProjectService) *DeletionController {
	return &DeletionController{projects: projects}
}

// RegisterRoutes registers deletion log routes
func (dc *DeletionController) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequirePermission(access.ResourceDeletions, access.ActionRead)
	router.GET("/deletions", read, dc.ListDeletions)
	router.GET("/projects/:id/deletions", read, dc.ListProjectDeletions)
}

// ListDeletions lists every recorded cascading delete
func (dc *DeletionController) ListDeletions(c *gin.Context) {
	dc.list(c, dto.DeletionLogFilter{
		ProjectID:  c.Query("projectId"),
		Outcome:    c.Query("outcome"),
		Pagination: parsePagination(c),
	})
}

// ListProjectDeletions lists the recorded delete attempts of one project
func (dc *DeletionController) ListProjectDeletions(c *gin.Context) {
	dc.list(c, dto.DeletionLogFilter{
		ProjectID:  c.Param("id"),
		Outcome:    c.Query("outcome"),
		Pagination: parsePagination(c),
	})
}

func (dc *DeletionController) list(c *gin.Context, filter dto.DeletionLogFilter) {
	response, err := dc.projects.ListDeletions(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, response)
}
