package handler

import (
	"errors"
	"log"

	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var (
		ve *service.ValidationError
		ie *service.InsufficientStockError
		re *service.ReferentialIntegrityError
		se *service.StorageError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &ie):
		return c.Status(409).JSON(fiber.Map{
			"error":      err.Error(),
			"product_id": ie.ProductID,
			"requested":  ie.Requested,
			"available":  ie.Available,
		})
	case errors.As(err, &re):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrBrandNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrProductInactive),
		errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrDuplicateBrand),
		errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrLastAdministrator):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &se):
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	log.Printf("%s %s: unmapped error: %v", c.Method(), c.Path(), err)
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}
