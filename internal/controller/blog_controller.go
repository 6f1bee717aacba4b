package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
)

type CreateBlogPostInput struct {
	Title     string `json:"title" validate:"required"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content" validate:"required"`
	CoverURL  string `json:"cover_url"`
	Published bool   `json:"published"`
}

func ListBlogPosts(c *fiber.Ctx) error {
	var posts []model.BlogPost
	if err := database.DB.Where("published = ?", true).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch blog posts",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

func GetBlogPostBySlug(c *fiber.Ctx) error {
	postSlug := c.Params("slug")

	var post model.BlogPost
	if err := database.DB.Where("slug = ? AND published = ?", postSlug, true).First(&post).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Blog post not found",
		})
	}

	database.DB.Model(&post).UpdateColumn("views", gorm.Expr("views + ?", 1))

	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

func CreateBlogPost(c *fiber.Ctx) error {
	input := new(CreateBlogPostInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Title == "" || input.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and content are required",
		})
	}

	post := model.BlogPost{
		Title:     input.Title,
		Slug:      slug.Make(input.Title),
		Excerpt:   input.Excerpt,
		Content:   input.Content,
		CoverURL:  input.CoverURL,
		Published: input.Published,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create blog post",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}
