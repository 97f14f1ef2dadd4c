package handler

import (
	"go-warehouse-inventory/config"
	"go-warehouse-inventory/internal/middleware"
	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/internal/service"
	"go-warehouse-inventory/internal/ws"
	"go-warehouse-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth      *AuthHandler
	Product   *ProductHandler
	Stock     *StockHandler
	Report    *ReportHandler
	Dashboard *DashboardHandler
}

// Services is the service layer wired over one database.
type Services struct {
	Users     repository.UserRepository
	Auth      service.AuthService
	Product   service.ProductService
	Stock     service.StockService
	Report    service.ReportService
	Dashboard service.DashboardService
}

// NewServices wires repositories and services (Dependency Injection).
func NewServices(db *gorm.DB, hub *ws.Hub, log *zap.Logger, cfg config.ReportsConfig) *Services {
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)

	reports := service.NewReportService(productRepo, reportRepo, db)
	return &Services{
		Users:     userRepo,
		Auth:      service.NewAuthService(userRepo, log),
		Product:   service.NewProductService(productRepo, db, hub, log),
		Stock:     service.NewStockService(productRepo, stockRepo, reportRepo, db, hub, log),
		Report:    reports,
		Dashboard: service.NewDashboardService(reports, reportRepo, db, cfg.RecentWindowDays),
	}
}

func NewHandlers(s *Services, log *zap.Logger, cfg config.ReportsConfig) *Handlers {
	log = logger.OrNop(log)
	return &Handlers{
		Auth:      NewAuthHandler(s.Auth),
		Product:   NewProductHandler(s.Product, s.Report, log),
		Stock:     NewStockHandler(s.Stock, cfg.SummaryWindowDays, log),
		Report:    NewReportHandler(s.Report, log),
		Dashboard: NewDashboardHandler(s.Dashboard, log),
	}
}

// Register mounts the /api/v1 routes.
func (h *Handlers) Register(app *fiber.App, userRepo repository.UserRepository) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-token", h.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))
	can := middleware.RequirePrivilege

	// Product Routes
	protected.Get("/products", can(model.PrivProductView), h.Product.GetProducts)
	protected.Post("/products", can(model.PrivProductCreate), h.Product.CreateProduct)
	protected.Get("/products/low-stock", can(model.PrivProductView), h.Product.GetLowStock)
	protected.Get("/products/:id", can(model.PrivProductView), h.Product.GetProduct)
	protected.Put("/products/:id", can(model.PrivProductUpdate), h.Product.UpdateProduct)
	protected.Delete("/products/:id", can(model.PrivProductDelete), h.Product.DeleteProduct)
	protected.Get("/products/:id/movements", can(model.PrivProductView), h.Product.GetMovements)

	// Transaction Routes
	protected.Get("/transactions", can(model.PrivTransactionView), h.Stock.GetTransactions)
	protected.Post("/transactions", can(model.PrivTransactionCreate), h.Stock.CreateTransaction)
	protected.Get("/transactions/summary", can(model.PrivTransactionView), h.Stock.GetSummary)
	protected.Get("/transactions/:id", can(model.PrivTransactionView), h.Stock.GetTransaction)
	protected.Put("/transactions/:id", can(model.PrivTransactionUpdate), h.Stock.UpdateTransaction)
	protected.Delete("/transactions/:id", can(model.PrivTransactionDelete), h.Stock.DeleteTransaction)
	protected.Post("/transactions/:id/complete", can(model.PrivTransactionComplete), h.Stock.CompleteTransaction)
	protected.Post("/transactions/:id/cancel", can(model.PrivTransactionCancel), h.Stock.CancelTransaction)
	protected.Post("/transactions/:id/lines", can(model.PrivTransactionUpdate), h.Stock.AddLine)

	// Stock Line Routes
	protected.Get("/stock-lines", can(model.PrivTransactionView), h.Stock.GetLines)
	protected.Get("/stock-lines/:id", can(model.PrivTransactionView), h.Stock.GetLine)
	protected.Put("/stock-lines/:id", can(model.PrivTransactionUpdate), h.Stock.UpdateLine)
	protected.Delete("/stock-lines/:id", can(model.PrivTransactionUpdate), h.Stock.DeleteLine)

	// Report Routes
	protected.Get("/reports/inventory", can(model.PrivReportView), h.Report.GetInventory)
	protected.Get("/reports/movements", can(model.PrivReportView), h.Report.GetMovements)

	// Dashboard Routes
	protected.Get("/dashboard/stats", can(model.PrivDashboardView), h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", can(model.PrivDashboardView), h.Dashboard.GetStockMovement)
}
