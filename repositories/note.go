package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

// NoteRepository handles database operations for notes
type NoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository instance
func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// FindByID retrieves a note visible in scope
func (r *NoteRepository) FindByID(ctx context.Context, id string, scope access.Scope) (models.Note, error) {
	var note models.Note
	result := scoped(r.db.WithContext(ctx), scope).First(&note, "id = ?", id)
	return note, result.Error
}

// FindWithPagination retrieves notes, pinned first, newest first
func (r *NoteRepository) FindWithPagination(ctx context.Context, filter dto.NoteFilter) ([]models.Note, int64, error) {
	var notes []models.Note
	var totalCount int64

	db := r.filtered(r.db.WithContext(ctx), filter)
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	page := filter.Pagination.Normalize()
	if err := db.Order("pinned desc, created_at desc").Limit(page.PageSize).Offset(page.Offset()).Find(&notes).Error; err != nil {
		return nil, 0, err
	}
	return notes, totalCount, nil
}

func (r *NoteRepository) filtered(db *gorm.DB, filter dto.NoteFilter) *gorm.DB {
	db = scoped(db.Model(&models.Note{}), filter.Scope)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		db = db.Where("(title ILIKE ? OR content ILIKE ?)", pattern, pattern)
	}
	if filter.Pinned != nil {
		db = db.Where("pinned = ?", *filter.Pinned)
	}
	return db
}

// Create inserts a new note
func (r *NoteRepository) Create(ctx context.Context, note models.Note) (models.Note, error) {
	result := r.db.WithContext(ctx).Create(&note)
	return note, result.Error
}

// Update modifies an existing note
func (r *NoteRepository) Update(ctx context.Context, note models.Note) (models.Note, error) {
	result := r.db.WithContext(ctx).Save(&note)
	return note, result.Error
}

// Delete removes a note visible in scope
func (r *NoteRepository) Delete(ctx context.Context, id string, scope access.Scope) error {
	result := scoped(r.db.WithContext(ctx), scope).Delete(&models.Note{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
