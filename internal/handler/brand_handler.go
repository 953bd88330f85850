package handler

import (
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BrandHandler struct {
	service service.BrandService
}

func NewBrandHandler(s service.BrandService) *BrandHandler {
	return &BrandHandler{service: s}
}

// POST /api/v1/brands
func (h *BrandHandler) CreateBrand(c *fiber.Ctx) error {
	var req service.BrandInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	brand, err := h.service.CreateBrand(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Brand created", "data": brand})
}

// PUT /api/v1/brands/:id
func (h *BrandHandler) UpdateBrand(c *fiber.Ctx) error {
	brandID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}

	var req service.BrandInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	brand, err := h.service.UpdateBrand(c.UserContext(), brandID, &req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Brand updated", "data": brand})
}

// DeleteBrand removes the brand and detaches its products
// DELETE /api/v1/brands/:id
func (h *BrandHandler) DeleteBrand(c *fiber.Ctx) error {
	brandID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}

	detached, err := h.service.DeleteBrand(c.UserContext(), brandID, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Brand deleted", "detached_products": detached})
}

// GET /api/v1/brands?q=
func (h *BrandHandler) GetBrands(c *fiber.Ctx) error {
	brands, err := h.service.SearchBrands(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(brands)
}

// GET /api/v1/brands/:id
func (h *BrandHandler) GetBrand(c *fiber.Ctx) error {
	brandID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}

	brand, err := h.service.GetBrand(c.UserContext(), brandID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(brand)
}
