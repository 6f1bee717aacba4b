package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/utils/jwt"
)

type CreateGenerationInput struct {
	UploadedPhotoURL string `json:"uploadedPhotoUrl"`
	ResultImageURL   string `json:"resultImageUrl"`
	TemplateID       string `json:"templateId"`
	GeneratedPrompt  string `json:"generatedPrompt"`
	TemplateName     string `json:"templateName"`
	QuotaUsed        int    `json:"quotaUsed"`
}

func ListGenerations(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	var records []model.GenerationRecord
	var total int64

	if err := database.DB.Model(&model.GenerationRecord{}).
		Where("user_id = ?", claims.UserID).
		Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch generations",
		})
	}

	if err := database.DB.Where("user_id = ?", claims.UserID).
		Preload("Template").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch generations",
		})
	}

	generations := make([]fiber.Map, 0, len(records))
	for _, record := range records {
		generations = append(generations, fiber.Map{
			"id":                record.ID,
			"originalImageUrl":  record.UploadedPhotoURL,
			"generatedImageUrl": record.ResultImageURL,
			"templateId":        record.TemplateID,
			"templateName":      record.Template.Name,
			"prompt":            record.GeneratedPrompt,
			"createdAt":         record.CreatedAt,
			"status":            record.Status,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"generations": generations,
		"pagination": fiber.Map{
			"total":   total,
			"limit":   limit,
			"offset":  offset,
			"hasMore": int64(offset+limit) < total,
		},
	})
}

// CreateGeneration client tarafında tamamlanmış bir üretimin kaydını alır.
// Bilinmeyen template id için prompt'tan ad hoc şablon oluşturulur.
func CreateGeneration(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateGenerationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.UploadedPhotoURL == "" || input.TemplateID == "" || input.ResultImageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	var template model.SceneTemplate
	if err := database.DB.First(&template, "id = ?", input.TemplateID).Error; err != nil {
		template = model.SceneTemplate{
			ID:          input.TemplateID,
			Category:    "custom",
			Name:        input.TemplateName,
			Description: input.TemplateName,
			BasePrompt:  input.GeneratedPrompt,
		}
		if template.Name == "" {
			template.Name = "Custom template"
		}
		if err := database.DB.Create(&template).Error; err != nil {
			// Yarışı kaybeden taraf mevcut satırı okur.
			if refetchErr := database.DB.First(&template, "id = ?", input.TemplateID).Error; refetchErr != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not create template",
				})
			}
		}
	}

	quotaUsed := input.QuotaUsed
	if quotaUsed <= 0 {
		quotaUsed = 1
	}

	record := model.GenerationRecord{
		UserID:           claims.UserID,
		UploadedPhotoURL: input.UploadedPhotoURL,
		TemplateID:       template.ID,
		ResultImageURL:   input.ResultImageURL,
		GeneratedPrompt:  input.GeneratedPrompt,
		QuotaUsed:        quotaUsed,
		Status:           model.GenerationStatusCompleted,
	}

	if err := database.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create generation record",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"generation": fiber.Map{
			"id":                record.ID,
			"originalImageUrl":  record.UploadedPhotoURL,
			"generatedImageUrl": record.ResultImageURL,
			"templateId":        record.TemplateID,
			"templateName":      template.Name,
			"prompt":            record.GeneratedPrompt,
			"createdAt":         record.CreatedAt,
			"status":            record.Status,
		},
	})
}

// DeleteGeneration ownership kontrolü middleware'de yapılır.
func DeleteGeneration(c *fiber.Ctx) error {
	record := c.Locals("generation").(*model.GenerationRecord)

	if err := database.DB.Delete(record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete generation",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
