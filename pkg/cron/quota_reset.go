package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
)

func InitQuotaResetCron() {
	c := cron.New()

	// Her gece yarım saat sonra; aynı gün birden fazla koşması sorun değil,
	// güncelleme idempotent.
	_, err := c.AddFunc("30 0 * * *", func() {
		AdvanceQuotaResetDates(time.Now())
	})

	if err != nil {
		log.Printf("Could not initialize quota reset cron: %v", err)
		return
	}

	c.Start()
}

// AdvanceQuotaResetDates ay sınırını geçmiş abonelikleri içinde bulunulan
// ayın birine taşır. Reset tarihi asla ileriye, henüz gelmemiş bir tarihe
// atılmaz; yoksa ledger'ın penceresi boşalır ve aylık limit ay sonuna kadar
// hiç uygulanmaz. Ledger kullanım sayısını reset tarihinden itibaren
// saydığı için bunun dışında sıfırlanacak bir sayaç yoktur.
func AdvanceQuotaResetDates(now time.Time) {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	result := database.DB.Model(&model.UserSubscription{}).
		Where("quota_reset_date < ?", monthStart).
		Update("quota_reset_date", monthStart)

	if result.Error != nil {
		log.Printf("Error advancing quota reset dates: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Advanced quota reset date for %d subscriptions", result.RowsAffected)
	}
}
