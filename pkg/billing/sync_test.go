package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"petphoto_backend/internal/model"
)

const (
	testPriceBasic = "price_test_basic"
	testPricePro   = "price_test_pro"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Setenv("STRIPE_PRICE_BASIC", testPriceBasic)
	t.Setenv("STRIPE_PRICE_PRO", testPricePro)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserSubscription{}))

	return db
}

func createSubscription(t *testing.T, db *gorm.DB, customerID string) *model.UserSubscription {
	user := model.User{Email: customerID + "@example.com", Password: "x", Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)

	sub := model.UserSubscription{
		UserID:           user.ID,
		Tier:             model.TierFree,
		QuotaMonth:       5,
		QuotaResetDate:   time.Now(),
		StripeCustomerID: customerID,
	}
	require.NoError(t, db.Create(&sub).Error)

	return &sub
}

func fetchSubscription(t *testing.T, db *gorm.DB, customerID string) *model.UserSubscription {
	var sub model.UserSubscription
	require.NoError(t, db.Where("stripe_customer_id = ?", customerID).First(&sub).Error)
	return &sub
}

func TestApplySubscriptionUpdateUpgradesToBasic(t *testing.T) {
	db := setupTestDB(t)
	createSubscription(t, db, "cus_1")

	err := ApplySubscriptionUpdate(db, SubscriptionEvent{
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
		Status:         "active",
		PriceID:        testPriceBasic,
	})
	require.NoError(t, err)

	sub := fetchSubscription(t, db, "cus_1")
	assert.Equal(t, model.TierBasic, sub.Tier)
	assert.Equal(t, 50, sub.QuotaMonth)
	require.NotNil(t, sub.StripeSubscriptionID)
	assert.Equal(t, "sub_1", *sub.StripeSubscriptionID)
	assert.Nil(t, sub.ExpiresAt)
}

func TestApplySubscriptionUpdateUpgradesToPro(t *testing.T) {
	db := setupTestDB(t)
	createSubscription(t, db, "cus_1")

	err := ApplySubscriptionUpdate(db, SubscriptionEvent{
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
		Status:         "active",
		PriceID:        testPricePro,
	})
	require.NoError(t, err)

	sub := fetchSubscription(t, db, "cus_1")
	assert.Equal(t, model.TierPro, sub.Tier)
	assert.Equal(t, 1000, sub.QuotaMonth)
}

func TestApplySubscriptionUpdateUnmappedPriceFallsBackToFree(t *testing.T) {
	db := setupTestDB(t)
	createSubscription(t, db, "cus_1")

	err := ApplySubscriptionUpdate(db, SubscriptionEvent{
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
		Status:         "active",
		PriceID:        "price_unknown",
	})
	require.NoError(t, err)

	sub := fetchSubscription(t, db, "cus_1")
	assert.Equal(t, model.TierFree, sub.Tier)
	assert.Equal(t, 5, sub.QuotaMonth)
}

func TestApplySubscriptionUpdateInactiveStatusExpiresNow(t *testing.T) {
	db := setupTestDB(t)
	createSubscription(t, db, "cus_1")

	err := ApplySubscriptionUpdate(db, SubscriptionEvent{
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
		Status:         "past_due",
		PriceID:        testPriceBasic,
	})
	require.NoError(t, err)

	sub := fetchSubscription(t, db, "cus_1")
	require.NotNil(t, sub.ExpiresAt)
	assert.WithinDuration(t, time.Now(), *sub.ExpiresAt, 5*time.Second)
}

func TestApplySubscriptionUpdateUnknownCustomerIsNoop(t *testing.T) {
	db := setupTestDB(t)
	createSubscription(t, db, "cus_1")

	err := ApplySubscriptionUpdate(db, SubscriptionEvent{
		SubscriptionID: "sub_x",
		CustomerID:     "cus_unknown",
		Status:         "active",
		PriceID:        testPricePro,
	})
	require.NoError(t, err)

	// Mevcut satır dokunulmamış kalmalı.
	sub := fetchSubscription(t, db, "cus_1")
	assert.Equal(t, model.TierFree, sub.Tier)
	assert.Nil(t, sub.StripeSubscriptionID)
}

func TestApplySubscriptionUpdateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	createSubscription(t, db, "cus_1")

	event := SubscriptionEvent{
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
		Status:         "active",
		PriceID:        testPricePro,
	}

	require.NoError(t, ApplySubscriptionUpdate(db, event))
	first := fetchSubscription(t, db, "cus_1")

	// Aynı olayın tekrar teslimi hiçbir alanı kaydırmamalı.
	require.NoError(t, ApplySubscriptionUpdate(db, event))
	require.NoError(t, ApplySubscriptionUpdate(db, event))
	third := fetchSubscription(t, db, "cus_1")

	assert.Equal(t, first.Tier, third.Tier)
	assert.Equal(t, first.QuotaMonth, third.QuotaMonth)
	assert.Equal(t, *first.StripeSubscriptionID, *third.StripeSubscriptionID)
	assert.Equal(t, first.ExpiresAt, third.ExpiresAt)
}

func TestApplySubscriptionDeletedResetsToFree(t *testing.T) {
	db := setupTestDB(t)
	createSubscription(t, db, "cus_1")

	require.NoError(t, ApplySubscriptionUpdate(db, SubscriptionEvent{
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
		Status:         "active",
		PriceID:        testPricePro,
	}))

	require.NoError(t, ApplySubscriptionDeleted(db, "cus_1"))

	sub := fetchSubscription(t, db, "cus_1")
	assert.Equal(t, model.TierFree, sub.Tier)
	assert.Equal(t, 5, sub.QuotaMonth)
	assert.Nil(t, sub.StripeSubscriptionID)
	require.NotNil(t, sub.ExpiresAt)
}

func TestApplySubscriptionDeletedUnknownCustomerIsNoop(t *testing.T) {
	db := setupTestDB(t)

	assert.NoError(t, ApplySubscriptionDeleted(db, "cus_unknown"))
}

func TestApplyInvoicePaidReturnsSubscriptionWithUser(t *testing.T) {
	db := setupTestDB(t)
	createSubscription(t, db, "cus_1")

	sub, err := ApplyInvoicePaid(db, "cus_1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "cus_1@example.com", sub.User.Email)

	// Bilinmeyen customer hata değildir.
	sub, err = ApplyInvoicePaid(db, "cus_unknown")
	require.NoError(t, err)
	assert.Nil(t, sub)
}
