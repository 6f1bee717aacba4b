package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/quota"
	"petphoto_backend/pkg/utils/jwt"
)

type QuotaOperationInput struct {
	Operation string `json:"operation"`
	Amount    int    `json:"amount"`
}

func GetQuota(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	info, err := quota.CheckQuota(database.DB, claims.UserID)
	if err != nil {
		return respondQuotaError(c, err)
	}

	return c.JSON(info)
}

// HandleQuotaOperation check/consume dispatch'idir. Consume bile bir şey
// düşmez; "hâlâ üretebilir miyim" tarzı dry-run sorguları içindir.
func HandleQuotaOperation(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(QuotaOperationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Operation == "" {
		input.Operation = "consume"
	}

	switch input.Operation {
	case "check":
		info, err := quota.CheckQuota(database.DB, claims.UserID)
		if err != nil {
			return respondQuotaError(c, err)
		}
		return c.JSON(info)
	case "consume":
		info, err := quota.ConsumeQuota(database.DB, claims.UserID, input.Amount)
		if err != nil {
			return respondQuotaError(c, err)
		}
		return c.JSON(info)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid operation",
		})
	}
}

func respondQuotaError(c *fiber.Ctx, err error) error {
	var quotaErr *quota.ErrQuotaExceeded

	switch {
	case errors.Is(err, quota.ErrSubscriptionNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	case errors.As(err, &quotaErr):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":   "Monthly quota exceeded",
			"current": quotaErr.Current,
			"limit":   quotaErr.Limit,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not process quota operation",
		})
	}
}
