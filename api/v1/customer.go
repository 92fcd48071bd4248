package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/services"
)

// CustomerController handles customer endpoints
type CustomerController struct {
	customers *services.CustomerService
}

// NewCustomerController creates a new customer controller
func NewCustomerController(customers *services.CustomerService) *CustomerController {
	return &CustomerController{customers: customers}
}

// RegisterRoutes registers customer routes
func (cc *CustomerController) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers")
	{
		customers.GET("", middleware.RequirePermission(access.ResourceCustomers, access.ActionRead), cc.ListCustomers)
		customers.GET("/:id", middleware.RequirePermission(access.ResourceCustomers, access.ActionRead), cc.GetCustomer)
		customers.POST("", middleware.RequirePermission(access.ResourceCustomers, access.ActionCreate), cc.CreateCustomer)
		customers.PUT("/:id", middleware.RequirePermission(access.ResourceCustomers, access.ActionUpdate), cc.UpdateCustomer)
		customers.DELETE("/:id", middleware.RequirePermission(access.ResourceCustomers, access.ActionDelete), cc.DeleteCustomer)
	}
}

// ListCustomers lists customers with search and pagination
func (cc *CustomerController) ListCustomers(c *gin.Context) {
	response, err := cc.customers.ListCustomers(c.Request.Context(), dto.CustomerFilter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		Pagination: parsePagination(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, response)
}

// GetCustomer returns one customer
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	customer, err := cc.customers.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, customer)
}

// CreateCustomer creates a customer
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	customer, err := cc.customers.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, customer)
}

// UpdateCustomer replaces the editable fields of a customer
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	customer, err := cc.customers.UpdateCustomer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, customer)
}

// DeleteCustomer removes a customer with no remaining projects or users
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	if err := cc.customers.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Customer deleted successfully",
	})
}
