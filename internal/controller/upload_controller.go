package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"petphoto_backend/pkg/utils/image"
	"petphoto_backend/pkg/utils/jwt"
	"petphoto_backend/pkg/utils/storage"
	"petphoto_backend/pkg/utils/validation"
)

// UploadPetPhoto kaynak fotoğrafı doğrulayıp R2'ye koyar ve generate
// çağrısında kullanılacak public URL'i döner.
func UploadPetPhoto(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, validation.ErrFileSize) {
			status = fiber.StatusRequestEntityTooLarge
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Bozuk dosyalar decode aşamasında elenir, storage'a ham dosya gitmez.
	body, contentType, err := image.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image file",
		})
	}

	result, err := storage.UploadPetPhoto(storage.UploadPhotoConfig{
		Filename:    file.Filename,
		UserName:    claims.Name,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload file",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"url":     result.URL,
	})
}
