package billing

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/subscription"
)

// SubscriptionEvent Stripe subscription payload'ından ihtiyacımız olan alt küme.
type SubscriptionEvent struct {
	SubscriptionID string
	CustomerID     string
	Status         string
	PriceID        string
}

// ApplySubscriptionUpdate customer.subscription.created/updated olaylarını
// işler. Alanlar her zaman atanır (arttırılmaz), bu yüzden aynı olayın
// tekrar teslimi ilk uygulamadan sonra no-op'tur.
func ApplySubscriptionUpdate(db *gorm.DB, event SubscriptionEvent) error {
	var userSub model.UserSubscription
	if err := db.Where("stripe_customer_id = ?", event.CustomerID).First(&userSub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Bilinmeyen customer senkronize edilemez; raporlanır, patlatılmaz.
			log.Printf("billing: no subscription row for customer %s, skipping", event.CustomerID)
			return nil
		}
		return err
	}

	tier := subscription.TierForPrice(event.PriceID)

	var expiresAt *time.Time
	if event.Status != "active" {
		now := time.Now()
		expiresAt = &now
	}

	updates := map[string]interface{}{
		"tier":                   tier,
		"stripe_subscription_id": event.SubscriptionID,
		"quota_month":            subscription.QuotaForTier(tier),
		"expires_at":             expiresAt,
	}

	if err := db.Model(&userSub).Updates(updates).Error; err != nil {
		return err
	}

	log.Printf("billing: subscription updated for user %d: tier=%s", userSub.UserID, tier)
	return nil
}

// ApplySubscriptionDeleted aboneliği free'ye döndürür. Satır yoksa no-op.
func ApplySubscriptionDeleted(db *gorm.DB, customerID string) error {
	var userSub model.UserSubscription
	if err := db.Where("stripe_customer_id = ?", customerID).First(&userSub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"tier":                   model.TierFree,
		"quota_month":            subscription.QuotaForTier(model.TierFree),
		"stripe_subscription_id": nil,
		"expires_at":             &now,
	}

	if err := db.Model(&userSub).Updates(updates).Error; err != nil {
		return err
	}

	log.Printf("billing: subscription cancelled for user %d", userSub.UserID)
	return nil
}

// ApplyInvoicePaid abonelik durumunu değiştirmez; ödeme bildirimi için
// e-posta tetiklemek isteyen çağıran taraf kullanıcıyı buradan alır.
func ApplyInvoicePaid(db *gorm.DB, customerID string) (*model.UserSubscription, error) {
	var userSub model.UserSubscription
	if err := db.Preload("User").Where("stripe_customer_id = ?", customerID).First(&userSub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &userSub, nil
}
