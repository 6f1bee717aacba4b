package quota

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"petphoto_backend/internal/model"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// ErrQuotaExceeded mevcut kullanım ve limiti taşır ki client upgrade
// mesajını doğru sayılarla gösterebilsin.
type ErrQuotaExceeded struct {
	Current int
	Limit   int
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("monthly quota exceeded: %d/%d", e.Current, e.Limit)
}

type Info struct {
	Tier           model.Tier `json:"tier"`
	QuotaMonth     int        `json:"quotaMonth"`
	QuotaUsed      int        `json:"quotaUsed"`
	QuotaRemaining int        `json:"quotaRemaining"`
	QuotaResetDate time.Time  `json:"quotaResetDate"`
}

// CheckQuota kullanım sayısını ayrı bir sayaçta tutmaz; quota_reset_date
// sonrası oluşturulan GenerationRecord satırlarını sayar. Reset tarihi
// ilerleyince pencere de ilerler, sayaç sıfırlamaya gerek kalmaz.
func CheckQuota(db *gorm.DB, userID uint) (*Info, error) {
	var sub model.UserSubscription
	if err := db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	var used int64
	if err := db.Model(&model.GenerationRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, sub.QuotaResetDate).
		Count(&used).Error; err != nil {
		return nil, err
	}

	remaining := sub.QuotaMonth - int(used)
	if remaining < 0 {
		remaining = 0
	}

	return &Info{
		Tier:           sub.Tier,
		QuotaMonth:     sub.QuotaMonth,
		QuotaUsed:      int(used),
		QuotaRemaining: remaining,
		QuotaResetDate: sub.QuotaResetDate,
	}, nil
}

// ConsumeQuota sadece ön koşul kontrolüdür, hiçbir şey düşmez. Gerçek
// tüketim orchestrator'ın GenerationRecord yazmasıyla olur; kaynak her
// zaman kayıt sayısıdır.
func ConsumeQuota(db *gorm.DB, userID uint, amount int) (*Info, error) {
	if amount <= 0 {
		amount = 1
	}

	info, err := CheckQuota(db, userID)
	if err != nil {
		return nil, err
	}

	if info.QuotaRemaining < amount {
		return nil, &ErrQuotaExceeded{Current: info.QuotaUsed, Limit: info.QuotaMonth}
	}

	return info, nil
}
