package dto

import (
	"github.com/facade-admin/access"
	"github.com/facade-admin/cascade"
	"github.com/facade-admin/models"
)

// DateLayout is the wire format of project dates
const DateLayout = "2006-01-02"

// ProjectFilter represents filter criteria for projects
type ProjectFilter struct {
	Search     string
	Status     string
	CustomerID string
	SortBy     string
	SortOrder  string
	Pagination
	Scope access.Scope
}

// ProjectListResponse represents paginated project list response
type ProjectListResponse struct {
	Projects   []models.Project `json:"projects"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// CreateProjectRequest represents the request payload for creating a new project
type CreateProjectRequest struct {
	Name            string   `json:"name" binding:"required,max=200"`
	Location        string   `json:"location" binding:"max=500"`
	StartDate       *string  `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate         *string  `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Status          string   `json:"status" binding:"omitempty,project_status"`
	Cost            *float64 `json:"cost" binding:"omitempty,gte=0"`
	EstimatedPanels *int     `json:"estimatedPanels" binding:"omitempty,gte=0"`
	CustomerID      *string  `json:"customerId" binding:"omitempty,uuid"`
}

// UpdateProjectRequest represents the request payload for updating an existing project
type UpdateProjectRequest CreateProjectRequest

// DependentsResponse describes what deleting a project would remove
type DependentsResponse struct {
	ProjectID string         `json:"projectId"`
	Counts    cascade.Counts `json:"counts"`
	Total     int64          `json:"total"`
	Message   string         `json:"message,omitempty"`
}

// DeleteProjectQuery carries the confirmation of a cascading delete. A
// confirmed delete echoes the counts the client was shown; the delete only
// goes ahead while the project still has exactly those dependents.
type DeleteProjectQuery struct {
	Confirm   bool  `form:"confirm"`
	Panels    int64 `form:"panels" binding:"gte=0"`
	Facades   int64 `form:"facades" binding:"gte=0"`
	Buildings int64 `form:"buildings" binding:"gte=0"`
}

// Counts returns the dependent counts the client confirmed.
func (q DeleteProjectQuery) Counts() cascade.Counts {
	return cascade.Counts{Panels: q.Panels, Facades: q.Facades, Buildings: q.Buildings}
}

// DeleteProjectResponse is returned after a successful cascading delete
type DeleteProjectResponse struct {
	ProjectID string         `json:"projectId"`
	Removed   cascade.Counts `json:"removed"`
}
