package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/deals"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DealUC    *deals.DealUseCase
	CompanyUC *usecase.CompanyUseCase
	ContactUC *usecase.ContactUseCase
	UserUC    *usecase.UserUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Deals (protegido)
	dealsGroup := protected.Group("/deals")
	dealHandler := NewDealHandler(deps.DealUC)
	dealsGroup.Post("/", dealHandler.Create)
	dealsGroup.Get("/", dealHandler.List)
	dealsGroup.Get("/:id", dealHandler.GetByID)
	dealsGroup.Put("/:id", dealHandler.Update)
	dealsGroup.Delete("/:id", dealHandler.Delete)

	// Companies (protegido)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)

	// Contacts (protegido)
	contacts := protected.Group("/contacts")
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/", contactHandler.List)
	contacts.Get("/:id", contactHandler.GetByID)
	contacts.Put("/:id", contactHandler.Update)

	// Users (protegido; administración solo admin)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/role", RequireRole(entity.RoleAdmin), userHandler.UpdateRole)
	users.Put("/:id/deactivate", RequireRole(entity.RoleAdmin), userHandler.Deactivate)
}
