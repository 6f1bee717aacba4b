package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/email"
)

func InitSubscriptionExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		checkExpiringSubscriptions()
	})

	if err != nil {
		log.Printf("Could not initialize subscription expiry cron: %v", err)
		return
	}

	c.Start()
}

func checkExpiringSubscriptions() {
	log.Println("Checking for expiring subscriptions...")

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		var subs []model.UserSubscription
		targetDate := time.Now().AddDate(0, 0, days).Format("2006-01-02")

		err := database.DB.Where("DATE(expires_at) = ? AND tier <> ?", targetDate, model.TierFree).
			Preload("User").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching expiring subscriptions: %v", err)
			continue
		}

		log.Printf("Found %d subscriptions expiring in %d days", len(subs), days)

		for _, sub := range subs {
			if email.GlobalEmailService == nil || sub.ExpiresAt == nil {
				continue
			}

			err := email.GlobalEmailService.SendSubscriptionExpiryWarning(
				sub.User.Email,
				sub.User.Name,
				string(sub.Tier),
				*sub.ExpiresAt,
				days,
			)
			if err != nil {
				log.Printf("Error sending expiry warning to %s: %v", sub.User.Email, err)
			}
		}
	}
}
