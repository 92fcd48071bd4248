package dto

import "github.com/facade-admin/models"

// DeletionLogFilter represents filter criteria for the deletion audit log
type DeletionLogFilter struct {
	ProjectID string
	Outcome   string
	Pagination
}

// DeletionLogListResponse represents paginated deletion log entries
type DeletionLogListResponse struct {
	Entries    []models.DeletionLog `json:"entries"`
	TotalCount int64                `json:"totalCount"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}
