package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/customer"
	stripesub "github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/billing"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/email"
	"petphoto_backend/pkg/utils/jwt"
)

type CheckoutInput struct {
	PriceID    string `json:"priceId" validate:"required"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

func InitSubscriptionController() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

// getOrCreateStripeCustomer önce email ile arar, yoksa userId metadata'sı
// ile yeni customer açar.
func getOrCreateStripeCustomer(userID uint, userEmail, name string) (*stripe.Customer, error) {
	listParams := &stripe.CustomerListParams{Email: stripe.String(userEmail)}
	listParams.Limit = stripe.Int64(1)

	iter := customer.List(listParams)
	for iter.Next() {
		return iter.Customer(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	customerParams := &stripe.CustomerParams{
		Email: stripe.String(userEmail),
	}
	if name != "" {
		customerParams.Name = stripe.String(name)
	}
	customerParams.AddMetadata("userId", fmt.Sprintf("%d", userID))

	return customer.New(customerParams)
}

// CreateCheckoutSession abonelik satırını gerekirse free/5 ile lazily
// oluşturur, Stripe customer'ı bağlar ve checkout URL'ini döner. Tier
// yükseltmesini webhook yapar, burada yapılmaz.
func CreateCheckoutSession(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CheckoutInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.PriceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price ID is required",
		})
	}

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	stripeCustomer, err := getOrCreateStripeCustomer(user.ID, user.Email, user.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create Stripe customer",
		})
	}

	var userSub model.UserSubscription
	if err := database.DB.Where("user_id = ?", user.ID).First(&userSub).Error; err != nil {
		userSub = model.UserSubscription{
			UserID:           user.ID,
			Tier:             model.TierFree,
			QuotaMonth:       5,
			QuotaResetDate:   firstOfCurrentMonth(),
			StripeCustomerID: stripeCustomer.ID,
		}
		if err := database.DB.Create(&userSub).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not create subscription",
			})
		}
	} else if userSub.StripeCustomerID == "" {
		if err := database.DB.Model(&userSub).Update("stripe_customer_id", stripeCustomer.ID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription",
			})
		}
	}

	appBaseURL := os.Getenv("APP_BASE_URL")
	if appBaseURL == "" {
		appBaseURL = "http://localhost:3000"
	}
	successURL := input.SuccessURL
	if successURL == "" {
		successURL = "/dashboard"
	}
	cancelURL := input.CancelURL
	if cancelURL == "" {
		cancelURL = "/pricing"
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Customer: stripe.String(stripeCustomer.ID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(input.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(appBaseURL + successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(appBaseURL + cancelURL),
	}
	sessionParams.AddMetadata("userId", fmt.Sprintf("%d", user.ID))

	checkoutSession, err := session.New(sessionParams)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"sessionId": checkoutSession.ID,
		"url":       checkoutSession.URL,
	})
}

func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.UserSubscription
	if err := database.DB.Where("user_id = ?", claims.UserID).First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found",
		})
	}

	return c.JSON(userSub)
}

func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.UserSubscription
	if err := database.DB.Preload("User").Where("user_id = ?", claims.UserID).First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found",
		})
	}

	if userSub.StripeSubscriptionID == nil || *userSub.StripeSubscriptionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No active paid subscription to cancel",
		})
	}

	if _, err := stripesub.Cancel(*userSub.StripeSubscriptionID, nil); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel Stripe subscription",
		})
	}

	// Webhook da aynı resetlemeyi yapar; iki kez uygulamak zararsız.
	if err := billing.ApplySubscriptionDeleted(database.DB, userSub.StripeCustomerID); err != nil {
		log.Printf("Could not reset subscription locally: %v", err)
	}

	if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendSubscriptionCancelledEmail(userSub.User.Email, userSub.User.Name); err != nil {
			log.Printf("Could not send subscription cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

// HandleStripeWebhook imza doğrulamasını olay uygulamasından ayırır:
// imza hatası 400'dür; imza geçtikten sonra olay işleme hataları loglanır
// ve yine 200 döner ki Stripe retry fırtınası başlatmasın.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		subEvent, err := parseSubscriptionEvent(event.Data.Raw)
		if err != nil {
			log.Printf("Could not parse subscription event: %v", err)
			break
		}
		if err := billing.ApplySubscriptionUpdate(database.DB, subEvent); err != nil {
			log.Printf("Error handling subscription update: %v", err)
			break
		}
		if event.Type == "customer.subscription.created" && subEvent.Status == "active" && email.GlobalEmailService != nil {
			var userSub model.UserSubscription
			if err := database.DB.Preload("User").Where("stripe_customer_id = ?", subEvent.CustomerID).First(&userSub).Error; err == nil {
				if err := email.GlobalEmailService.SendSubscriptionStartedEmail(userSub.User.Email, userSub.User.Name, string(userSub.Tier), userSub.QuotaMonth); err != nil {
					log.Printf("Could not send subscription started email: %v", err)
				}
			}
		}

	case "customer.subscription.deleted":
		subEvent, err := parseSubscriptionEvent(event.Data.Raw)
		if err != nil {
			log.Printf("Could not parse subscription event: %v", err)
			break
		}
		if err := billing.ApplySubscriptionDeleted(database.DB, subEvent.CustomerID); err != nil {
			log.Printf("Error handling subscription deletion: %v", err)
		}

	case "invoice.payment_succeeded":
		var invoiceData struct {
			Customer string `json:"customer"`
		}
		if err := json.Unmarshal(event.Data.Raw, &invoiceData); err != nil {
			log.Printf("Could not parse invoice event: %v", err)
			break
		}
		userSub, err := billing.ApplyInvoicePaid(database.DB, invoiceData.Customer)
		if err != nil {
			log.Printf("Error handling invoice payment: %v", err)
			break
		}
		if userSub != nil && email.GlobalEmailService != nil {
			if err := email.GlobalEmailService.SendPaymentReceivedEmail(userSub.User.Email, userSub.User.Name, string(userSub.Tier)); err != nil {
				log.Printf("Could not send payment received email: %v", err)
			}
		}

	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	return c.SendStatus(fiber.StatusOK)
}

func parseSubscriptionEvent(raw json.RawMessage) (billing.SubscriptionEvent, error) {
	var subData struct {
		ID       string `json:"id"`
		Customer string `json:"customer"`
		Status   string `json:"status"`
		Items    struct {
			Data []struct {
				Price struct {
					ID string `json:"id"`
				} `json:"price"`
			} `json:"data"`
		} `json:"items"`
	}

	if err := json.Unmarshal(raw, &subData); err != nil {
		return billing.SubscriptionEvent{}, err
	}

	subEvent := billing.SubscriptionEvent{
		SubscriptionID: subData.ID,
		CustomerID:     subData.Customer,
		Status:         subData.Status,
	}
	if len(subData.Items.Data) > 0 {
		subEvent.PriceID = subData.Items.Data[0].Price.ID
	}

	return subEvent, nil
}

func firstOfCurrentMonth() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
