package services

import (
	"context"
	"fmt"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
	"github.com/facade-admin/repositories"
)

// NoteStore is the note persistence NoteService needs
type NoteStore interface {
	FindByID(ctx context.Context, id string, scope access.Scope) (models.Note, error)
	FindWithPagination(ctx context.Context, filter dto.NoteFilter) ([]models.Note, int64, error)
	Create(ctx context.Context, note models.Note) (models.Note, error)
	Update(ctx context.Context, note models.Note) (models.Note, error)
	Delete(ctx context.Context, id string, scope access.Scope) error
}

// NoteService handles business logic for dashboard notes
type NoteService struct {
	notes NoteStore
}

// NewNoteService creates a new note service instance
func NewNoteService(notes NoteStore) *NoteService {
	return &NoteService{notes: notes}
}

// ListNotes retrieves the notes visible to principal
func (s *NoteService) ListNotes(ctx context.Context, principal access.Principal, filter dto.NoteFilter) (dto.NoteListResponse, error) {
	filter.Scope = principal.Scope()
	filter.Pagination = filter.Pagination.Normalize()
	notes, totalCount, err := s.notes.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.NoteListResponse{}, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return dto.NoteListResponse{
		Notes:      notes,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: filter.Pagination.TotalPages(totalCount),
	}, nil
}

// GetNote retrieves a note visible to principal
func (s *NoteService) GetNote(ctx context.Context, principal access.Principal, id string) (models.Note, error) {
	note, err := s.notes.FindByID(ctx, id, principal.Scope())
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.Note{}, ErrNotFound
		}
		return models.Note{}, fmt.Errorf("find note: %w", err)
	}
	return note, nil
}

// CreateNote creates a note authored by principal
func (s *NoteService) CreateNote(ctx context.Context, principal access.Principal, req dto.NoteRequest) (models.Note, error) {
	note := models.Note{
		Title:   req.Title,
		Content: req.Content,
		Pinned:  req.Pinned,
	}
	if principal.UserID != "" {
		author := principal.UserID
		note.AuthorID = &author
	}
	if principal.CustomerID != "" {
		customerID := principal.CustomerID
		note.CustomerID = &customerID
	}
	created, err := s.notes.Create(ctx, note)
	if err != nil {
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}
	return created, nil
}

// UpdateNote replaces the title, content and pin flag of a note
func (s *NoteService) UpdateNote(ctx context.Context, principal access.Principal, id string, req dto.NoteRequest) (models.Note, error) {
	note, err := s.GetNote(ctx, principal, id)
	if err != nil {
		return models.Note{}, err
	}
	note.Title = req.Title
	note.Content = req.Content
	note.Pinned = req.Pinned
	updated, err := s.notes.Update(ctx, note)
	if err != nil {
		return models.Note{}, fmt.Errorf("update note: %w", err)
	}
	return updated, nil
}

// DeleteNote removes a note visible to principal
func (s *NoteService) DeleteNote(ctx context.Context, principal access.Principal, id string) error {
	if err := s.notes.Delete(ctx, id, principal.Scope()); err != nil {
		if repositories.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
