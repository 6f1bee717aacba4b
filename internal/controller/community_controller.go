package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/utils/jwt"
)

type ShareGenerationInput struct {
	GenerationID uint   `json:"generationId" validate:"required"`
	Title        string `json:"title"`
}

func ListCommunityPosts(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	var posts []model.CommunityPost
	if err := database.DB.Where("approved = ?", true).
		Preload("Generation").
		Preload("User").
		Order("likes DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch community posts",
		})
	}

	mapped := make([]fiber.Map, 0, len(posts))
	for _, post := range posts {
		mapped = append(mapped, fiber.Map{
			"id":        post.ID,
			"title":     post.Title,
			"imageUrl":  post.Generation.ResultImageURL,
			"author":    post.User.Name,
			"likes":     post.Likes,
			"createdAt": post.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"posts":   mapped,
	})
}

// ShareGeneration kullanıcının kendi üretimini galeriye ekler.
func ShareGeneration(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(ShareGenerationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var record model.GenerationRecord
	if err := database.DB.First(&record, input.GenerationID).Error; err != nil || record.UserID != claims.UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Generation not found",
		})
	}

	post := model.CommunityPost{
		UserID:       claims.UserID,
		GenerationID: record.ID,
		Title:        input.Title,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not share generation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

func LikeCommunityPost(c *fiber.Ctx) error {
	postID := c.Params("id")

	result := database.DB.Model(&model.CommunityPost{}).
		Where("id = ? AND approved = ?", postID, true).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not like post",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func DeleteCommunityPost(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	postID := c.Params("id")

	var post model.CommunityPost
	if err := database.DB.First(&post, postID).Error; err != nil || post.UserID != claims.UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	if err := database.DB.Delete(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete post",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
