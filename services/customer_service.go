package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
	"github.com/facade-admin/repositories"
)

// CustomerStore is the customer persistence CustomerService needs
type CustomerStore interface {
	FindByID(ctx context.Context, id string) (models.Customer, error)
	FindWithPagination(ctx context.Context, filter dto.CustomerFilter) ([]models.Customer, int64, error)
	Create(ctx context.Context, customer models.Customer) (models.Customer, error)
	Update(ctx context.Context, customer models.Customer) (models.Customer, error)
	Delete(ctx context.Context, id string) error
}

// CustomerService handles business logic for customers
type CustomerService struct {
	customers CustomerStore
	log       *logrus.Entry
}

// NewCustomerService creates a new customer service instance
func NewCustomerService(customers CustomerStore, log *logrus.Entry) *CustomerService {
	return &CustomerService{customers: customers, log: log}
}

// ListCustomers retrieves customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, filter dto.CustomerFilter) (dto.CustomerListResponse, error) {
	filter.Pagination = filter.Pagination.Normalize()
	customers, totalCount, err := s.customers.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.CustomerListResponse{}, fmt.Errorf("list customers: %w", err)
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return dto.CustomerListResponse{
		Customers:  customers,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: filter.Pagination.TotalPages(totalCount),
	}, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.Customer{}, ErrNotFound
		}
		return models.Customer{}, fmt.Errorf("find customer: %w", err)
	}
	return customer, nil
}

// CreateCustomer creates a customer
func (s *CustomerService) CreateCustomer(ctx context.Context, req dto.CustomerRequest) (models.Customer, error) {
	customer := models.Customer{Status: "active"}
	applyCustomer(&customer, req)
	created, err := s.customers.Create(ctx, customer)
	if err != nil {
		if isDuplicate(err) {
			return models.Customer{}, fmt.Errorf("%w: customer already exists", ErrConflict)
		}
		return models.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	s.log.WithField("customer_id", created.ID).Info("Customer created")
	return created, nil
}

// UpdateCustomer replaces the editable fields of a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req dto.CustomerRequest) (models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return models.Customer{}, err
	}
	applyCustomer(&customer, req)
	updated, err := s.customers.Update(ctx, customer)
	if err != nil {
		if isDuplicate(err) {
			return models.Customer{}, fmt.Errorf("%w: customer already exists", ErrConflict)
		}
		return models.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return updated, nil
}

// DeleteCustomer removes a customer that nothing references any more
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		switch {
		case repositories.IsNotFound(err):
			return ErrNotFound
		case isReferenced(err):
			return fmt.Errorf("%w: customer still has projects or users", ErrConflict)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	s.log.WithField("customer_id", id).Info("Customer deleted")
	return nil
}

func applyCustomer(customer *models.Customer, req dto.CustomerRequest) {
	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	if req.Status != "" {
		customer.Status = req.Status
	}
}
