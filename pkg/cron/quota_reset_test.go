package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/quota"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserSubscription{},
		&model.SceneTemplate{},
		&model.GenerationRecord{},
	))

	previous := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = previous })

	return db
}

func createUserWithResetDate(t *testing.T, db *gorm.DB, resetDate time.Time) *model.User {
	user := model.User{Email: "reset@example.com", Password: "x", Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)

	sub := model.UserSubscription{
		UserID:         user.ID,
		Tier:           model.TierFree,
		QuotaMonth:     5,
		QuotaResetDate: resetDate,
	}
	require.NoError(t, db.Create(&sub).Error)

	return &user
}

func createRecordsAt(t *testing.T, db *gorm.DB, userID uint, count int, createdAt time.Time) {
	for i := 0; i < count; i++ {
		record := model.GenerationRecord{
			UserID:           userID,
			UploadedPhotoURL: "https://cdn.example.com/uploads/cat.jpg",
			TemplateID:       "tpl-1",
			ResultImageURL:   "https://cdn.example.com/results/cat.png",
			QuotaUsed:        1,
			Status:           model.GenerationStatusCompleted,
		}
		record.CreatedAt = createdAt
		require.NoError(t, db.Create(&record).Error)
	}
}

func firstOfMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceQuotaResetDatesMidCycleIsNoop(t *testing.T) {
	db := setupTestDB(t)

	monthStart := firstOfMonth(time.Now())
	user := createUserWithResetDate(t, db, monthStart)
	createRecordsAt(t, db, user.ID, 5, time.Now())

	info, err := quota.CheckQuota(db, user.ID)
	require.NoError(t, err)
	require.Equal(t, 5, info.QuotaUsed)

	// Gece koşan job döngü ortasında pencereyi kaydırmamalı; limiti
	// doldurmuş kullanıcı ay sonuna kadar bloklu kalır.
	AdvanceQuotaResetDates(time.Now())

	info, err = quota.CheckQuota(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, info.QuotaUsed)
	assert.Equal(t, 0, info.QuotaRemaining)

	var sub model.UserSubscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.True(t, sub.QuotaResetDate.Equal(monthStart))
}

func TestAdvanceQuotaResetDatesRollsOverStaleRows(t *testing.T) {
	db := setupTestDB(t)

	monthStart := firstOfMonth(time.Now())
	lastMonth := monthStart.AddDate(0, -1, 0)

	user := createUserWithResetDate(t, db, lastMonth)
	createRecordsAt(t, db, user.ID, 5, lastMonth.Add(24*time.Hour))

	AdvanceQuotaResetDates(time.Now())

	var sub model.UserSubscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.True(t, sub.QuotaResetDate.Equal(monthStart))

	// Geçen ayın üretimleri yeni pencerede sayılmaz.
	info, err := quota.CheckQuota(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, info.QuotaUsed)
	assert.Equal(t, 5, info.QuotaRemaining)
}

func TestAdvanceQuotaResetDatesIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	monthStart := firstOfMonth(time.Now())
	user := createUserWithResetDate(t, db, monthStart.AddDate(0, -2, 0))

	AdvanceQuotaResetDates(time.Now())
	AdvanceQuotaResetDates(time.Now())

	var sub model.UserSubscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.True(t, sub.QuotaResetDate.Equal(monthStart))
}
