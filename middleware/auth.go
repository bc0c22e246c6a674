package middleware

import (
	"academy/config"
	"academy/models"
	"academy/services"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// InstructorMiddleware admits instructors and admins.
func InstructorMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, services.CanAuthorCourses)
}

// AdminMiddleware admits admins only.
func AdminMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, services.CanManageUsers)
}

func requireRole(db *gorm.DB, cfg *config.Config, allowed func(string) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !allowed(user.Role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden - insufficient role",
			})
		}

		c.Locals("userID", userID)
		c.Locals("userRole", user.Role)
		return c.Next()
	}
}
