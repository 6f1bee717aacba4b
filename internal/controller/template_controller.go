package controller

import (
	"github.com/gofiber/fiber/v2"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
)

func ListTemplates(c *fiber.Ctx) error {
	category := c.Query("category")

	query := database.DB.Model(&model.SceneTemplate{}).Order("usage_count DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var templates []model.SceneTemplate
	if err := query.Find(&templates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch templates",
		})
	}

	mapped := make([]fiber.Map, 0, len(templates))
	for _, template := range templates {
		mapped = append(mapped, fiber.Map{
			"id":          template.ID,
			"name":        template.Name,
			"description": template.Description,
			"category":    template.Category,
			"preview":     template.Thumbnail,
			"prompt":      template.BasePrompt,
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"templates": mapped,
	})
}
