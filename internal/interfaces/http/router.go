package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-escolar/internal/application/analytics"
	"github.com/tu-usuario/almacen-escolar/internal/application/auth"
	"github.com/tu-usuario/almacen-escolar/internal/application/requisition"
	"github.com/tu-usuario/almacen-escolar/internal/application/stock"
	"github.com/tu-usuario/almacen-escolar/internal/application/usecase"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.Usecase
	MaterialUC    *usecase.MaterialUsecase
	DepartmentUC  *usecase.DepartmentUsecase
	UserUC        *usecase.UserUsecase
	StockUC       *stock.Usecase
	RequisitionUC *requisition.Usecase
	DashboardUC   *analytics.DashboardUseCase
	VoucherPDF    VoucherPDFGenerator
	JWTSecret     string
}

// Router registra las rutas de la API.
//
// Las rutas fijas (pending, stats, low-stock, ...) van antes que las de
// parámetro :id para que Fiber no las capture como ids.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Materiales (catálogo visible para todos los autenticados; escritura la
	// restringe el caso de uso al almacenista)
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	movementHandler := NewMovementHandler(deps.StockUC)
	materials.Get("/low-stock", materialHandler.LowStock)
	materials.Get("/categories", materialHandler.Categories)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Deactivate)
	materials.Get("/:id/movements", movementHandler.History)

	// Movimientos de stock
	movements := protected.Group("/movements")
	movements.Get("/stats", movementHandler.Stats)
	movements.Post("/", movementHandler.Register)
	movements.Get("/", movementHandler.List)

	// Requisiciones
	requisitions := protected.Group("/requisitions")
	requisitionHandler := NewRequisitionHandler(deps.RequisitionUC, deps.VoucherPDF)
	requisitions.Get("/pending", requisitionHandler.Pending)
	requisitions.Get("/stats", requisitionHandler.Stats)
	requisitions.Post("/", requisitionHandler.Create)
	requisitions.Get("/", requisitionHandler.List)
	requisitions.Get("/:id", requisitionHandler.GetByID)
	requisitions.Put("/:id", requisitionHandler.Update)
	requisitions.Post("/:id/approve", requisitionHandler.Approve)
	requisitions.Post("/:id/reject", requisitionHandler.Reject)
	requisitions.Get("/:id/pdf", requisitionHandler.VoucherPDF)

	// Departamentos (escritura solo administrador)
	departments := protected.Group("/departments")
	departmentHandler := NewDepartmentHandler(deps.DepartmentUC)
	departments.Get("/", departmentHandler.List)
	departments.Get("/:id", departmentHandler.GetByID)
	departments.Post("/", RequireRole(entity.RoleAdministrador), departmentHandler.Create)
	departments.Put("/:id", RequireRole(entity.RoleAdministrador), departmentHandler.Update)

	// Usuarios
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", RequireRole(entity.RoleAdministrador), userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", RequireRole(entity.RoleAdministrador), userHandler.Update)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
}
