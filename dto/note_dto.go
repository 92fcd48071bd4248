package dto

import (
	"github.com/facade-admin/access"
	"github.com/facade-admin/models"
)

// NoteFilter represents filter criteria for notes
type NoteFilter struct {
	Search string
	Pinned *bool
	Pagination
	Scope access.Scope
}

// NoteListResponse represents paginated note list response
type NoteListResponse struct {
	Notes      []models.Note `json:"notes"`
	TotalCount int64         `json:"totalCount"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// NoteRequest is the payload for creating or updating a note
type NoteRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
}
