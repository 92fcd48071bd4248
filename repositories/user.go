package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by its ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	return user, result.Error
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	return user, result.Error
}

// ExistsByEmail reports whether a user with email exists
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByUsername reports whether a user with username exists
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// FindWithPagination retrieves users ordered by email
func (r *UserRepository) FindWithPagination(ctx context.Context, filter dto.UserFilter) ([]models.User, int64, error) {
	var users []models.User
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		db = db.Where("(email ILIKE ? OR name ILIKE ? OR username ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	page := filter.Pagination.Normalize()
	if err := db.Order("email asc").Limit(page.PageSize).Offset(page.Offset()).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, totalCount, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	result := r.db.WithContext(ctx).Create(&user)
	return user, result.Error
}

// Update modifies an existing user
func (r *UserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	result := r.db.WithContext(ctx).Save(&user)
	return user, result.Error
}

// Delete removes a user. It returns gorm.ErrRecordNotFound when no row matched.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
