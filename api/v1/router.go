package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/facade-admin/middleware"
	"github.com/facade-admin/services"
)

// Services bundles what the v1 routes need
type Services struct {
	Auth         *services.AuthService
	Projects     *services.ProjectService
	Exports      *services.ExportService
	Structures   *services.StructureService
	Customers    *services.CustomerService
	Notes        *services.NoteService
	Users        *services.UserService
	SecureCookie bool
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, svc Services) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	NewAuthController(svc.Auth, svc.SecureCookie).RegisterRoutes(router)

	// Everything below requires a valid token
	authRouter := router.Group("")
	authRouter.Use(middleware.AuthMiddleware(svc.Auth))

	NewProjectController(svc.Projects, svc.Exports).RegisterRoutes(authRouter)
	NewStructureController(svc.Structures).RegisterRoutes(authRouter)
	NewDeletionController(svc.Projects).RegisterRoutes(authRouter)
	NewCustomerController(svc.Customers).RegisterRoutes(authRouter)
	NewNoteController(svc.Notes).RegisterRoutes(authRouter)
	NewUserController(svc.Users).RegisterRoutes(authRouter)
}
