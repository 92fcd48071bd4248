package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/services"
)

// NoteController handles dashboard notes
type NoteController struct {
	notes *services.NoteService
}

// NewNoteController creates a new note controller
func NewNoteController(notes *services.NoteService) *NoteController {
	return &NoteController{notes: notes}
}

// RegisterRoutes registers note routes
func (nc *NoteController) RegisterRoutes(router *gin.RouterGroup) {
	notes := router.Group("/notes")
	{
		notes.GET("", middleware.RequirePermission(access.ResourceNotes, access.ActionRead), nc.ListNotes)
		notes.GET("/:id", middleware.RequirePermission(access.ResourceNotes, access.ActionRead), nc.GetNote)
		notes.POST("", middleware.RequirePermission(access.ResourceNotes, access.ActionCreate), nc.CreateNote)
		notes.PUT("/:id", middleware.RequirePermission(access.ResourceNotes, access.ActionUpdate), nc.UpdateNote)
		notes.DELETE("/:id", middleware.RequirePermission(access.ResourceNotes, access.ActionDelete), nc.DeleteNote)
	}
}

// ListNotes lists the notes visible to the caller
func (nc *NoteController) ListNotes(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter := dto.NoteFilter{Search: c.Query("search"), Pagination: parsePagination(c)}
	if raw := c.Query("pinned"); raw != "" {
		pinned, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "pinned must be true or false")
			return
		}
		filter.Pinned = &pinned
	}

	response, err := nc.notes.ListNotes(c.Request.Context(), p, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, response)
}

// GetNote returns one note
func (nc *NoteController) GetNote(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	note, err := nc.notes.GetNote(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, note)
}

// CreateNote creates a note authored by the caller
func (nc *NoteController) CreateNote(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	note, err := nc.notes.CreateNote(c.Request.Context(), p, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, note)
}

// UpdateNote replaces a note
func (nc *NoteController) UpdateNote(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	note, err := nc.notes.UpdateNote(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, note)
}

// DeleteNote removes a note
func (nc *NoteController) DeleteNote(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := nc.notes.DeleteNote(c.Request.Context(), p, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Note deleted successfully",
	})
}
