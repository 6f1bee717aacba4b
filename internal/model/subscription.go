package model

import (
	"time"

	"gorm.io/gorm"
)

type Tier string

const (
	TierFree  Tier = "free"
	TierBasic Tier = "basic"
	TierPro   Tier = "pro"
)

// UserSubscription her kullanıcı için tek satırdır. quota_month her zaman
// tier tablosundan türetilir, Stripe payload'ından asla okunmaz.
type UserSubscription struct {
	gorm.Model
	UserID               uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Tier                 Tier       `json:"tier" gorm:"default:'free'"`
	QuotaMonth           int        `json:"quota_month" gorm:"default:5"`
	QuotaResetDate       time.Time  `json:"quota_reset_date"`
	StripeCustomerID     string     `json:"stripe_customer_id" gorm:"index"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
	ExpiresAt            *time.Time `json:"expires_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (s *UserSubscription) IsActive() bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(time.Now())
}
