package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/notification"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/pkg/validator"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth        AuthConfig
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	MovementUC  *usecase.MovementUseCase
	UnitUC      *usecase.UnitUseCase
	ProfileUC   *usecase.ProfileUseCase
	DashboardUC *usecase.DashboardUseCase
	ReportUC    *report.UseCase
	Inbox       *notification.InboxUseCase
	Reconciler  *notification.Reconciler
	Feed        notification.Feed // opcional
	Validator   validator.Validator
	Log         zerolog.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras
// requieren permiso de edición y la gestión de usuarios, admin o super_admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Auth))
	edit := RequireEdit()

	// Perfil y usuarios
	profileHandler := NewProfileHandler(deps.ProfileUC, deps.Validator)
	profiles := api.Group("/profiles")
	profiles.Get("/me", profileHandler.Me)
	profiles.Get("/", RequireUserManagement(), profileHandler.List)
	profiles.Patch("/:id", RequireUserManagement(), profileHandler.UpdateAccess)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard", dashboardHandler.GetSummary)

	// Categorías y productos
	productHandler := NewProductHandler(deps.ProductUC, deps.CategoryUC, deps.Validator)
	movementHandler := NewMovementHandler(deps.MovementUC, deps.Validator)
	categories := api.Group("/categories")
	categories.Get("/", productHandler.ListCategories)
	categories.Post("/", edit, productHandler.CreateCategory)

	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", edit, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", edit, productHandler.Update)
	products.Delete("/:id", edit, productHandler.Deactivate)
	products.Post("/:id/adjust", edit, movementHandler.Adjust)

	// Movimientos
	movements := api.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Get("/stats", movementHandler.Stats)
	movements.Post("/", edit, movementHandler.Register)

	// Unidades (escritura solo admin)
	unitHandler := NewUnitHandler(deps.UnitUC, deps.Validator)
	units := api.Group("/units")
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Post("/", RequireRole(access.Admin), unitHandler.Create)
	units.Put("/:id", RequireRole(access.Admin), unitHandler.Update)

	// Notificaciones
	notificationHandler := NewNotificationHandler(deps.Inbox, deps.Reconciler, deps.Feed, deps.Validator, deps.Log)
	notifications := api.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Get("/stream", notificationHandler.Stream)
	notifications.Patch("/read-all", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Post("/reconcile", edit, notificationHandler.Reconcile)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC, deps.MovementUC, deps.Validator)
	reports := api.Group("/reports")
	reports.Get("/products", reportHandler.Catalog)
	reports.Get("/movements", reportHandler.Movements)
	reports.Get("/restock", reportHandler.Restock)
}
