package middleware

import (
	"github.com/gofiber/fiber/v2"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/utils/jwt"
)

// CheckGenerationOwnership kaydın sahibi olmayan istekleri keser. Sahiplik
// bilgisi sızdırmamak için yabancı kayıtlara da 404 döner.
func CheckGenerationOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		generationID := c.Params("id")

		var record model.GenerationRecord
		if err := database.DB.First(&record, generationID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Generation not found",
			})
		}

		if record.UserID != claims.UserID {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Generation not found",
			})
		}

		c.Locals("generation", &record)
		return c.Next()
	}
}
