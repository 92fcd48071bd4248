package dto

import "github.com/facade-admin/models"

// CustomerFilter represents filter criteria for customers
type CustomerFilter struct {
	Search string
	Status string
	Pagination
}

// CustomerListResponse represents paginated customer list response
type CustomerListResponse struct {
	Customers  []models.Customer `json:"customers"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// CustomerRequest is the payload for creating or updating a customer
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	Status  string `json:"status" binding:"omitempty,oneof=active inactive"`
}
