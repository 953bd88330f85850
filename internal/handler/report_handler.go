package handler

import (
	"time"

	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetBestSellers ranks products by units sold
// Query params: limit (default 10)
func (h *ReportHandler) GetBestSellers(c *fiber.Ctx) error {
	data, err := h.service.BestSellers(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data)
}

// GetLowStock lists active products at or below the threshold
// Query params: threshold (default from LOW_STOCK_THRESHOLD)
func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	data, err := h.service.LowStock(c.UserContext(), c.QueryInt("threshold", -1))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data)
}

// GetExpiring lists active products expiring within the window
// Query params: days (default 30)
func (h *ReportHandler) GetExpiring(c *fiber.Ctx) error {
	data, err := h.service.ExpiringWithin(c.UserContext(), c.QueryInt("days", 30))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data)
}

// GetSalesSummary counts and totals sales in a date range
// Query params: from, to (YYYY-MM-DD, default last 30 days)
func (h *ReportHandler) GetSalesSummary(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from", false)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	to, err := parseDateQuery(c, "to", true)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	end := time.Now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}

	summary, err := h.service.SalesSummary(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetSalesByDay returns daily sales data for charts
// Query params: days (default 7)
func (h *ReportHandler) GetSalesByDay(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}

	data, err := h.service.SalesByDay(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.DashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
