package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
	"github.com/facade-admin/repositories"
)

// UserService handles user administration
type UserService struct {
	users     UserStore
	customers CustomerLookup
	log       *logrus.Entry
}

// NewUserService creates a new user service instance
func NewUserService(users UserStore, customers CustomerLookup, log *logrus.Entry) *UserService {
	return &UserService{users: users, customers: customers, log: log}
}

// ListUsers retrieves users with pagination, search and role filter
func (s *UserService) ListUsers(ctx context.Context, filter dto.UserFilter) (dto.UserListResponse, error) {
	filter.Pagination = filter.Pagination.Normalize()
	users, totalCount, err := s.users.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.UserListResponse{}, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return dto.UserListResponse{
		Users:      users,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: filter.Pagination.TotalPages(totalCount),
	}, nil
}

// UpdateUser changes the role, customer and name of a user. Customer users
// must be linked to an existing customer.
func (s *UserService) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}
	var customerID *string
	if req.CustomerID != nil && *req.CustomerID != "" {
		if _, err := s.customers.FindByID(ctx, *req.CustomerID); err != nil {
			if repositories.IsNotFound(err) {
				return models.User{}, fmt.Errorf("%w: customer %s does not exist", ErrInvalidInput, *req.CustomerID)
			}
			return models.User{}, fmt.Errorf("find customer: %w", err)
		}
		cid := *req.CustomerID
		customerID = &cid
	}
	if role == models.RoleCustomer && customerID == nil {
		return models.User{}, fmt.Errorf("%w: customer users need a customer", ErrInvalidInput)
	}

	user.Role = role
	user.CustomerID = customerID
	user.Customer = nil
	if req.Name != nil {
		user.Name = req.Name
	}
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "role": role}).Info("User updated")
	return updated, nil
}

// DeleteUser removes a user other than the caller
func (s *UserService) DeleteUser(ctx context.Context, principal access.Principal, id string) error {
	if id == principal.UserID {
		return fmt.Errorf("%w: you cannot delete your own account", ErrInvalidInput)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.WithField("user_id", id).Info("User deleted")
	return nil
}
