package dto

import "github.com/facade-admin/models"

// UserFilter represents filter criteria for users
type UserFilter struct {
	Search string
	Role   string
	Pagination
}

// UserListResponse represents paginated user list response
type UserListResponse struct {
	Users      []models.User `json:"users"`
	TotalCount int64         `json:"totalCount"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// UpdateUserRequest changes the role or customer of a user
type UpdateUserRequest struct {
	Role       string  `json:"role" binding:"required,oneof=admin manager customer viewer"`
	CustomerID *string `json:"customerId" binding:"omitempty,uuid"`
	Name       *string `json:"name"`
}
