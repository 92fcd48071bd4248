package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/services"
)

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

// respondServiceError maps service errors to status codes. Unexpected errors
// are attached to the context for the request logger and hidden from clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrDeleteInProgress):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
}

// principal returns the authenticated caller or writes a 401
func principal(c *gin.Context) (access.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
	}
	return p, ok
}

func parsePagination(c *gin.Context) dto.Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}
	return dto.Pagination{Page: page, PageSize: pageSize}.Normalize()
}
