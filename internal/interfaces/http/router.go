package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/pos-backoffice/internal/application/analytics"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/application/transaction"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	OrganizationUC *usecase.OrganizationUseCase
	OperatorUC     *usecase.OperatorUseCase
	CategoryUC     *usecase.CategoryUseCase
	ProductUC      *usecase.ProductUseCase
	SupplierUC     *usecase.SupplierUseCase
	CustomerUC     *usecase.CustomerUseCase
	ContactUC      *usecase.ContactUseCase
	MovementUC     *inventory.MovementUseCase
	Recorder       *transaction.Recorder
	QueryUC        *transaction.QueryUseCase
	ReportUC       *analytics.ReportUseCase
	DashboardUC    *analytics.DashboardUseCase
	JWTSecret      string
	Blacklist      ports.TokenBlacklist

	// Límite de intentos por IP en el grupo /auth. 0 = sin límite.
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authenticated := AuthMiddleware(deps.JWTSecret, deps.Blacklist)

	catalog := RequireCapability(entity.CapManageCatalog)
	sales := RequireCapability(entity.CapRecordSales)
	purchases := RequireCapability(entity.CapRecordPurchases)
	adjust := RequireCapability(entity.CapAdjustStock)
	reports := RequireCapability(entity.CapViewReports)
	operators := RequireCapability(entity.CapManageOperators)
	organization := RequireCapability(entity.CapManageOrganization)

	// Auth (público salvo perfil, logout y cambio de contraseña)
	authGroup := api.Group("/auth")
	if deps.AuthRateLimit > 0 {
		authGroup.Use(authLimiter(deps.AuthRateLimit, deps.AuthRateWindow))
	}
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/forget-password", authHandler.ForgetPassword)
	authGroup.Post("/password-forgot/otp-verify", authHandler.VerifyResetOTP)
	authGroup.Post("/password-forgot/new-password-set", authHandler.SetNewPassword)
	authGroup.Post("/logout", authenticated, authHandler.Logout)
	authGroup.Post("/change-password", authenticated, authHandler.ChangePassword)
	authGroup.Get("/profile", authenticated, authHandler.GetProfile)
	authGroup.Patch("/profile", authenticated, authHandler.UpdateProfile)
	authGroup.Put("/profile/picture", authenticated, authHandler.UploadPicture)
	authGroup.Delete("/profile/picture", authenticated, authHandler.DeletePicture)

	// Contacto: envío público, bandeja protegida
	contactHandler := NewContactHandler(deps.ContactUC)
	api.Post("/contact-messages", contactHandler.Submit)
	api.Get("/contact-messages", authenticated, organization, contactHandler.List)
	api.Patch("/contact-messages/:id/read", authenticated, organization, contactHandler.MarkRead)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", authenticated)

	orgHandler := NewOrganizationHandler(deps.OrganizationUC)
	protected.Get("/organization", orgHandler.Get)
	protected.Put("/organization", organization, orgHandler.Update)

	operatorHandler := NewOperatorHandler(deps.OperatorUC)
	ops := protected.Group("/operators")
	ops.Get("/", operatorHandler.List)
	ops.Get("/:id", operatorHandler.GetByID)
	ops.Post("/", operators, operatorHandler.Create)
	ops.Delete("/:id", operators, operatorHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", catalog, categoryHandler.Create)
	categories.Put("/:id", catalog, categoryHandler.Update)
	categories.Delete("/:id", catalog, categoryHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC, deps.MovementUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movements", productHandler.Movements)
	products.Post("/", catalog, productHandler.Create)
	products.Put("/:id", catalog, productHandler.Update)
	products.Delete("/:id", catalog, productHandler.Delete)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", catalog, supplierHandler.Create)
	suppliers.Put("/:id", catalog, supplierHandler.Update)
	suppliers.Delete("/:id", catalog, supplierHandler.Delete)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", catalog, customerHandler.Create)
	customers.Put("/:id", catalog, customerHandler.Update)
	customers.Delete("/:id", catalog, customerHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	movements := protected.Group("/stock-movements")
	movements.Get("/", inventoryHandler.List)
	movements.Post("/", adjust, inventoryHandler.RegisterMovement)

	txHandler := NewTransactionHandler(deps.Recorder, deps.QueryUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Get("/", txHandler.ListSales)
	salesGroup.Get("/:id", txHandler.GetSale)
	salesGroup.Post("/", sales, txHandler.RecordSale)
	salesGroup.Post("/:id/payments", sales, txHandler.RegisterPayment)

	purchasesGroup := protected.Group("/purchases")
	purchasesGroup.Get("/", txHandler.ListPurchases)
	purchasesGroup.Get("/:id", txHandler.GetPurchase)
	purchasesGroup.Post("/", purchases, txHandler.RecordPurchase)

	reportHandler := NewReportHandler(deps.ReportUC)
	rep := protected.Group("/reports", reports)
	rep.Get("/sales", reportHandler.Sales)
	rep.Get("/sales/export", reportHandler.ExportSales)
	rep.Get("/stock", reportHandler.Stock)
	rep.Get("/stock/export", reportHandler.ExportStock)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/inventory", reports, dashboardHandler.GetInventory)
}

// authLimiter limita intentos por IP (login, OTP, reset) con ventana fija.
func authLimiter(max int, window time.Duration) fiber.Handler {
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiados intentos, intenta más tarde",
			})
		},
	})
}
