package controller

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/generation"
	"petphoto_backend/pkg/quota"
	"petphoto_backend/pkg/utils/jwt"
	"petphoto_backend/pkg/utils/storage"
)

type GenerateInput struct {
	UploadedImageURL string `json:"uploadedImageUrl"`
	TemplateID       string `json:"templateId"`
	CustomPrompt     string `json:"customPrompt"`
	Provider         string `json:"provider"`
	ProImageSize     string `json:"proImageSize"`
	ProAspectRatio   string `json:"proAspectRatio"`

	TemplateName        string `json:"templateName"`
	TemplateDescription string `json:"templateDescription"`
	TemplateCategory    string `json:"templateCategory"`
	TemplateThumbnail   string `json:"templateThumbnail"`
}

func generationTimeout() time.Duration {
	if value := os.Getenv("GENERATION_TIMEOUT"); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 300 * time.Second
}

// Generate tek bir üretim isteğini uçtan uca işler. Client bağlantıyı
// koparsa dış sağlayıcı çağrısı yine tamamlanabilir ve kayıt yazılır;
// bu sistemin riskleri için kabul edilebilir bir davranış.
func Generate(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(GenerateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.UploadedImageURL == "" || (input.TemplateID == "" && input.CustomPrompt == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: uploadedImageUrl, templateId",
		})
	}

	timeout := generationTimeout()
	generator, err := generation.ForProvider(input.Provider, timeout, storage.R2Uploader{})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown provider",
		})
	}

	req := generation.Request{
		UserID:              claims.UserID,
		TemplateID:          input.TemplateID,
		UploadedImageURL:    input.UploadedImageURL,
		CustomPrompt:        input.CustomPrompt,
		Provider:            input.Provider,
		Options:             generation.NormalizeOptions(input.ProImageSize, input.ProAspectRatio),
		TemplateName:        input.TemplateName,
		TemplateDescription: input.TemplateDescription,
		TemplateCategory:    input.TemplateCategory,
		TemplateThumbnail:   input.TemplateThumbnail,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	record, err := generation.RequestGeneration(ctx, database.DB, generator, req)
	if err != nil {
		return respondGenerationError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"generation": generationResponse(record),
	})
}

func respondGenerationError(c *fiber.Ctx, err error) error {
	var quotaErr *quota.ErrQuotaExceeded
	var genErr *generation.ErrGenerationFailed

	switch {
	case errors.Is(err, quota.ErrSubscriptionNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User subscription not found",
		})
	case errors.Is(err, generation.ErrUpgradeRequired):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":        "This provider requires a paid subscription",
			"requiredTier": model.TierBasic,
		})
	case errors.Is(err, generation.ErrFreeUsesExhausted):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Free uses for this provider are exhausted",
		})
	case errors.As(err, &quotaErr):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":   "Monthly quota exceeded",
			"current": quotaErr.Current,
			"limit":   quotaErr.Limit,
		})
	case errors.Is(err, generation.ErrTemplateNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Template not found",
		})
	case errors.As(err, &genErr):
		// Sağlayıcı mesajı log'a gider, client'a generic mesaj döner.
		log.Printf("Generation failed: %v", genErr.Reason)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate image, please try again",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate image",
		})
	}
}

func generationResponse(record *model.GenerationRecord) fiber.Map {
	var templateName string
	var template model.SceneTemplate
	if err := database.DB.Select("name").First(&template, "id = ?", record.TemplateID).Error; err == nil {
		templateName = template.Name
	}

	return fiber.Map{
		"id":                record.ID,
		"originalImageUrl":  record.UploadedPhotoURL,
		"generatedImageUrl": record.ResultImageURL,
		"templateId":        record.TemplateID,
		"templateName":      templateName,
		"prompt":            record.GeneratedPrompt,
		"createdAt":         record.CreatedAt,
		"status":            record.Status,
	}
}
