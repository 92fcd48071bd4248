package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/services"
)

// UserController handles user administration
type UserController struct {
	users *services.UserService
}

// NewUserController creates a new user controller
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// RegisterRoutes registers user routes
func (uc *UserController) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.RequirePermission(access.ResourceUsers, access.ActionRead), uc.ListUsers)
		users.PUT("/:id", middleware.AdminMiddleware(), uc.UpdateUser)
		users.DELETE("/:id", middleware.AdminMiddleware(), uc.DeleteUser)
	}
}

// ListUsers lists users with search, role filter and pagination
func (uc *UserController) ListUsers(c *gin.Context) {
	response, err := uc.users.ListUsers(c.Request.Context(), dto.UserFilter{
		Search:     c.Query("search"),
		Role:       c.Query("role"),
		Pagination: parsePagination(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, response)
}

// UpdateUser changes the role and customer of a user
func (uc *UserController) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := uc.users.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// DeleteUser removes a user
func (uc *UserController) DeleteUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := uc.users.DeleteUser(c.Request.Context(), p, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User deleted successfully",
	})
}
