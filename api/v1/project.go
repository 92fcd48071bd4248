package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
	"github.com/facade-admin/cascade"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/prompt"
	"github.com/facade-admin/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProjectController handles project endpoints and the cascading delete
type ProjectController struct {
	projects *services.ProjectService
	exports  *services.ExportService
}

// NewProjectController creates a new project controller
func NewProjectController(projects *services.ProjectService, exports *services.ExportService) *ProjectController {
	return &ProjectController{projects: projects, exports: exports}
}

// RegisterRoutes registers project routes. The group must already run AuthMiddleware.
func (pc *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequirePermission(access.ResourceProjects, access.ActionRead)

	projects := router.Group("/projects")
	{
		projects.GET("", read, pc.ListProjects)
		projects.GET("/export", read, pc.ExportProjects)
		projects.POST("", middleware.RequirePermission(access.ResourceProjects, access.ActionCreate), pc.CreateProject)
		projects.GET("/:id", read, pc.GetProject)
		projects.PUT("/:id", middleware.RequirePermission(access.ResourceProjects, access.ActionUpdate), pc.UpdateProject)
		projects.GET("/:id/dependents", read, pc.GetDependents)
		projects.DELETE("/:id", middleware.RequirePermission(access.ResourceProjects, access.ActionDelete), pc.DeleteProject)
	}
}

func projectFilter(c *gin.Context) dto.ProjectFilter {
	return dto.ProjectFilter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		CustomerID: c.Query("customerId"),
		SortBy:     c.DefaultQuery("sortBy", "created_at"),
		SortOrder:  c.DefaultQuery("sortOrder", "desc"),
		Pagination: parsePagination(c),
	}
}

// ListProjects lists projects with pagination, filtering and sorting
func (pc *ProjectController) ListProjects(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	response, err := pc.projects.ListProjects(c.Request.Context(), p, projectFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, response)
}

// ExportProjects downloads the filtered project list as a spreadsheet
func (pc *ProjectController) ExportProjects(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	data, err := pc.exports.ExportProjects(c.Request.Context(), p, projectFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("projects-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetProject returns one project
func (pc *ProjectController) GetProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	project, err := pc.projects.GetProject(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

// CreateProject creates a project
func (pc *ProjectController) CreateProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := pc.projects.CreateProject(c.Request.Context(), p, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, project)
}

// UpdateProject replaces the editable fields of a project
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := pc.projects.UpdateProject(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

// GetDependents reports what deleting the project would remove
func (pc *ProjectController) GetDependents(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	preview, err := pc.projects.PreviewDelete(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondPreviewError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, preview)
}

// DeleteProject runs the cascading delete. A project with dependents is only
// removed when the request carries confirm=true together with the panels,
// facades and buildings counts from the confirmation it answered. If the
// dependents changed since then, the client gets the new message back.
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var q dto.DeleteProjectQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	var confirmer cascade.Confirmer = prompt.NewStatic(false)
	if q.Confirm {
		confirmer = prompt.NewExpect(cascade.ConfirmationMessage(q.Counts()))
	}

	out, err := pc.projects.DeleteProject(c.Request.Context(), p, c.Param("id"), services.DeleteOptions{
		Confirmer: confirmer,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOutcome(c, c.Param("id"), out)
}

func respondPreviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cascade.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "code": "unauthorized", "message": err.Error()})
	case errors.Is(err, cascade.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "code": "invalid_request", "message": err.Error()})
	case errors.Is(err, cascade.ErrDependencyCheckFailed):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "code": "dependency_check_failed", "message": err.Error()})
	default:
		respondServiceError(c, err)
	}
}

// respondOutcome writes the HTTP form of a cascading delete outcome
func respondOutcome(c *gin.Context, projectID string, out cascade.Outcome) {
	body := gin.H{"status": "error", "code": out.Kind.String()}
	if out.Err != nil {
		body["message"] = out.Err.Error()
	}

	switch out.Kind {
	case cascade.Deleted:
		respondSuccess(c, http.StatusOK, dto.DeleteProjectResponse{ProjectID: projectID, Removed: out.Counts})
		return
	case cascade.Unauthorized:
		c.JSON(http.StatusForbidden, body)
	case cascade.InvalidRequest:
		c.JSON(http.StatusBadRequest, body)
	case cascade.DependencyCheckFailed:
		body["stage"] = out.Stage
		c.JSON(http.StatusBadGateway, body)
	case cascade.Cancelled:
		body["code"] = "confirmation_required"
		body["message"] = out.Message
		body["counts"] = out.Counts
		c.JSON(http.StatusConflict, body)
	case cascade.DependentDeleteFailed:
		body["entity"] = out.Entity
		body["completed"] = out.Completed
		c.JSON(http.StatusBadGateway, body)
	case cascade.ProjectDeleteFailed:
		body["completed"] = out.Completed
		if out.Referenced {
			body["code"] = "project_still_referenced"
			c.JSON(http.StatusConflict, body)
			return
		}
		c.JSON(http.StatusBadGateway, body)
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}
