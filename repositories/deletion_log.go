package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

// DeletionLogRepository stores the audit trail of cascading deletes
type DeletionLogRepository struct {
	db *gorm.DB
}

// NewDeletionLogRepository creates a new deletion log repository instance
func NewDeletionLogRepository(db *gorm.DB) *DeletionLogRepository {
	return &DeletionLogRepository{db: db}
}

// Create appends an entry
func (r *DeletionLogRepository) Create(ctx context.Context, entry models.DeletionLog) (models.DeletionLog, error) {
	result := r.db.WithContext(ctx).Create(&entry)
	return entry, result.Error
}

// FindWithPagination lists entries newest first
func (r *DeletionLogRepository) FindWithPagination(ctx context.Context, filter dto.DeletionLogFilter) ([]models.DeletionLog, int64, error) {
	var entries []models.DeletionLog
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.DeletionLog{})
	if filter.ProjectID != "" {
		db = db.Where("project_id = ?", filter.ProjectID)
	}
	if filter.Outcome != "" {
		db = db.Where("outcome = ?", filter.Outcome)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	page := filter.Pagination.Normalize()
	if err := db.Order("created_at desc").Limit(page.PageSize).Offset(page.Offset()).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, totalCount, nil
}
