package handler

import (
	"time"

	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// RecordSale converts a cart into a persisted sale
// POST /api/v1/sales
func (h *SaleHandler) RecordSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	id, err := h.service.RecordSale(c.UserContext(), req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "id": id})
}

// ReverseSale returns the sold units to stock and deletes the sale
// DELETE /api/v1/sales/:id
func (h *SaleHandler) ReverseSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	if _, err := h.service.ReverseSale(c.UserContext(), id, middleware.CurrentActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale reversed", "id": id})
}

// GetSales lists sales newest first, optionally filtered by ?from=&to= (YYYY-MM-DD)
// GET /api/v1/sales
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from", false)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	to, err := parseDateQuery(c, "to", true)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	sales, err := h.service.ListSales(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// CheckStock answers whether qty units are currently available
// GET /api/v1/products/:id/stock-check?qty=N
func (h *SaleHandler) CheckStock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	qty := c.QueryInt("qty", 1)

	ok, err := h.service.HasSufficientStock(c.UserContext(), id, qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": id, "quantity": qty, "sufficient": ok})
}

// parseDateQuery reads an optional YYYY-MM-DD query value. endOfDay moves
// the instant to the last nanosecond of that day.
func parseDateQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fiber.NewError(400, "invalid "+key+" date, use YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
