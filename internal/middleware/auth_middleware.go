package middleware

import (
	"strings"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localUserID   = "user_id"
	localUsername = "username"
	localRole     = "role"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(signer *jwt.Signer, userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := signer.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// The role is read from the store so demotions apply to live tokens.
		user, err := userRepo.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}

		c.Locals(localUserID, user.ID)
		c.Locals(localUsername, user.Username)
		c.Locals(localRole, user.Role)

		return c.Next()
	}
}

// RequireCapability checks if the authenticated user's role grants the capability
func RequireCapability(required model.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(localRole).(model.Role)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}

		if !role.Can(required) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + string(required) + "' capability",
			})
		}
		return c.Next()
	}
}

// CurrentActor returns the authenticated user set by RequireAuth.
func CurrentActor(c *fiber.Ctx) service.Actor {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	username, _ := c.Locals(localUsername).(string)
	role, _ := c.Locals(localRole).(model.Role)
	return service.Actor{ID: id, Username: username, Role: role}
}
