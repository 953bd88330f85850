package handler

import (
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.ProductService
	sku     service.SKUService
}

func NewProductHandler(s service.ProductService, sku service.SKUService) *ProductHandler {
	return &ProductHandler{service: s, sku: sku}
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

type activeRequest struct {
	Active bool `json:"active"`
}

type skuRequest struct {
	SKU       string    `json:"sku"`
	ProductID uuid.UUID `json:"product_id"`
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), productID, &req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(c.UserContext(), productID, middleware.CurrentActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// PATCH /api/v1/products/:id/active
func (h *ProductHandler) SetActive(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req activeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.SetActive(c.UserContext(), productID, req.Active, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// POST /api/v1/products/:id/restock
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req restockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Restock(c.UserContext(), productID, req.Quantity, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock added", "data": product})
}

// GetProducts lists products by name; ?q= filters on name or SKU
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	listing, err := h.service.SearchProducts(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listing.Products)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// GET /api/v1/products/sku/:sku
func (h *ProductHandler) GetProductBySKU(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySKU(c.UserContext(), c.Params("sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// GET /api/v1/brands/:id/products
func (h *ProductHandler) GetProductsByBrand(c *fiber.Ctx) error {
	brandID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}

	products, err := h.service.ProductsByBrand(c.UserContext(), brandID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// ValidateSKU checks format and uniqueness; product_id excludes the product being edited
// POST /api/v1/sku/validate
func (h *ProductHandler) ValidateSKU(c *fiber.Ctx) error {
	var req skuRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	res, err := h.sku.Validate(c.UserContext(), req.SKU, req.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
