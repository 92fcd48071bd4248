package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByID retrieves a customer by its ID
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (models.Customer, error) {
	var customer models.Customer
	result := r.db.WithContext(ctx).First(&customer, "id = ?", id)
	return customer, result.Error
}

// FindWithPagination retrieves customers ordered by name
func (r *CustomerRepository) FindWithPagination(ctx context.Context, filter dto.CustomerFilter) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.Customer{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		db = db.Where("(name ILIKE ? OR email ILIKE ?)", pattern, pattern)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	page := filter.Pagination.Normalize()
	if err := db.Order("name asc").Limit(page.PageSize).Offset(page.Offset()).Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, totalCount, nil
}

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer models.Customer) (models.Customer, error) {
	result := r.db.WithContext(ctx).Create(&customer)
	return customer, result.Error
}

// Update modifies an existing customer
func (r *CustomerRepository) Update(ctx context.Context, customer models.Customer) (models.Customer, error) {
	result := r.db.WithContext(ctx).Save(&customer)
	return customer, result.Error
}

// Delete removes a customer. It returns gorm.ErrRecordNotFound when no row matched.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
