package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/middleware"
	"github.com/facade-admin/services"
)

// AuthController handles registration, login and the current user
type AuthController struct {
	auth         *services.AuthService
	secureCookie bool
}

// NewAuthController creates a new auth controller. secureCookie marks the
// access_token cookie HTTPS only.
func NewAuthController(auth *services.AuthService, secureCookie bool) *AuthController {
	return &AuthController{auth: auth, secureCookie: secureCookie}
}

// RegisterRoutes registers auth routes
func (a *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", a.Register)
		authGroup.POST("/login", a.Login)
		authGroup.POST("/logout", a.Logout)
		// Use auth middleware here only for the /me endpoint
		authGroup.GET("/me", middleware.AuthMiddleware(a.auth), a.GetCurrentUser)
	}
}

// Register handles user registration
func (a *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := a.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User registered successfully",
		"data":    user,
	})
}

// Login handles user authentication
func (a *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	authResponse, err := a.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Set token as HttpOnly cookie for browser clients
	c.SetCookie(
		middleware.TokenCookie,
		authResponse.Token,
		int(a.auth.TokenTTL().Seconds()),
		"/",
		"",
		a.secureCookie,
		true,
	)

	// Also return token in response body for clients that prefer Bearer auth
	respondSuccess(c, http.StatusOK, authResponse)
}

// GetCurrentUser returns the currently authenticated user's profile
func (a *AuthController) GetCurrentUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := a.auth.GetUser(c.Request.Context(), p.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}
