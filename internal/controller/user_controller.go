package controller

import (
	"github.com/gofiber/fiber/v2"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/utils/jwt"
)

type UpdateProfileInput struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func GetProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{"user": user.GetPublicProfile()})
}

// UpdateProfile sadece isim ve avatar günceller; email değişmez.
func UpdateProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(UpdateProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Avatar != "" {
		updates["avatar"] = input.Avatar
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update profile",
			})
		}
	}

	return c.JSON(fiber.Map{"user": user.GetPublicProfile()})
}
