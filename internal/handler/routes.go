package handler

import (
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted under /api/v1.
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Product *ProductHandler
	Brand   *BrandHandler
	Sale    *SaleHandler
	Report  *ReportHandler
}

// Register mounts the API on api. requireAuth guards every route except
// login and token validation.
func Register(api fiber.Router, h Handlers, requireAuth fiber.Handler) {
	can := middleware.RequireCapability

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/change-password", requireAuth, h.Auth.ChangePassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	// Reports
	protected.Get("/dashboard/stats", can(model.CapReportView), h.Report.GetDashboardStats)
	protected.Get("/reports/best-sellers", can(model.CapReportView), h.Report.GetBestSellers)
	protected.Get("/reports/low-stock", can(model.CapReportView), h.Report.GetLowStock)
	protected.Get("/reports/expiring", can(model.CapReportView), h.Report.GetExpiring)
	protected.Get("/reports/sales-summary", can(model.CapReportView), h.Report.GetSalesSummary)
	protected.Get("/reports/sales-by-day", can(model.CapReportView), h.Report.GetSalesByDay)

	// Products
	protected.Get("/products", h.Product.GetProducts)
	protected.Get("/products/sku/:sku", h.Product.GetProductBySKU)
	protected.Get("/products/:id", h.Product.GetProduct)
	protected.Get("/products/:id/stock-check", h.Sale.CheckStock)
	protected.Post("/products", can(model.CapProductWrite), h.Product.CreateProduct)
	protected.Put("/products/:id", can(model.CapProductWrite), h.Product.UpdateProduct)
	protected.Patch("/products/:id/active", can(model.CapProductWrite), h.Product.SetActive)
	protected.Post("/products/:id/restock", can(model.CapStockAdjust), h.Product.Restock)
	protected.Delete("/products/:id", can(model.CapProductDelete), h.Product.DeleteProduct)
	protected.Post("/sku/validate", h.Product.ValidateSKU)

	// Brands
	protected.Get("/brands", h.Brand.GetBrands)
	protected.Get("/brands/:id", h.Brand.GetBrand)
	protected.Get("/brands/:id/products", h.Product.GetProductsByBrand)
	protected.Post("/brands", can(model.CapBrandWrite), h.Brand.CreateBrand)
	protected.Put("/brands/:id", can(model.CapBrandWrite), h.Brand.UpdateBrand)
	protected.Delete("/brands/:id", can(model.CapBrandWrite), h.Brand.DeleteBrand)

	// Sales
	protected.Get("/sales", h.Sale.GetSales)
	protected.Get("/sales/:id", h.Sale.GetSale)
	protected.Post("/sales", can(model.CapSaleCreate), h.Sale.RecordSale)
	protected.Delete("/sales/:id", can(model.CapSaleReverse), h.Sale.ReverseSale)

	// Users
	protected.Get("/users/me", h.User.GetMe)
	protected.Get("/users", can(model.CapUserManage), h.User.GetAllUsers)
	protected.Get("/users/:id", can(model.CapUserManage), h.User.GetUser)
	protected.Post("/users", can(model.CapUserManage), h.User.CreateUser)
	protected.Put("/users/:id", can(model.CapUserManage), h.User.UpdateUser)
	protected.Delete("/users/:id", can(model.CapUserManage), h.User.DeleteUser)
}
