package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/quota"
)

type fakeGenerator struct {
	calls  int
	result *Result
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, input Input) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &Result{ImageURL: "https://cdn.example.com/results/out.png", Prompt: input.Prompt}, nil
}

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

	return db
}

func seedUser(t *testing.T, db *gorm.DB, tier model.Tier, quotaMonth int) *model.User {
	user := model.User{Email: fmt.Sprintf("%s-%d@example.com", tier, time.Now().UnixNano()), Password: "x", Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)

	sub := model.UserSubscription{
		UserID:         user.ID,
		Tier:           tier,
		QuotaMonth:     quotaMonth,
		QuotaResetDate: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&sub).Error)

	return &user
}

func seedTemplate(t *testing.T, db *gorm.DB) *model.SceneTemplate {
	template := model.SceneTemplate{
		ID:         "tpl-doctor",
		Category:   "professional",
		Name:       "医生职业照",
		BasePrompt: "doctor portrait prompt",
	}
	require.NoError(t, db.Create(&template).Error)
	return &template
}

func seedRecords(t *testing.T, db *gorm.DB, userID uint, count int, resultURL string) {
	for i := 0; i < count; i++ {
		record := model.GenerationRecord{
			UserID:           userID,
			UploadedPhotoURL: "https://cdn.example.com/uploads/cat.jpg",
			TemplateID:       "tpl-doctor",
			ResultImageURL:   resultURL,
			QuotaUsed:        1,
			Status:           model.GenerationStatusCompleted,
		}
		require.NoError(t, db.Create(&record).Error)
	}
}

func baseRequest(userID uint) Request {
	return Request{
		UserID:           userID,
		TemplateID:       "tpl-doctor",
		UploadedImageURL: "https://cdn.example.com/uploads/cat.jpg",
		Provider:         ProviderStandard,
		Options:          NormalizeOptions("", ""),
	}
}

func TestRequestGenerationNoSubscription(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	gen := &fakeGenerator{}

	_, err := RequestGeneration(context.Background(), db, gen, baseRequest(999))

	assert.ErrorIs(t, err, quota.ErrSubscriptionNotFound)
	assert.Zero(t, gen.calls)
}

func TestRequestGenerationProProviderBlockedForFreeTier(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	user := seedUser(t, db, model.TierFree, 5)
	gen := &fakeGenerator{}

	req := baseRequest(user.ID)
	req.Provider = ProviderPro

	_, err := RequestGeneration(context.Background(), db, gen, req)

	assert.ErrorIs(t, err, ErrUpgradeRequired)
	assert.Zero(t, gen.calls)
}

func TestRequestGenerationProProviderAllowedForBasicTier(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	user := seedUser(t, db, model.TierBasic, 50)
	gen := &fakeGenerator{}

	req := baseRequest(user.ID)
	req.Provider = ProviderPro

	record, err := RequestGeneration(context.Background(), db, gen, req)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, ProviderPro, record.Provider)
}

func TestRequestGenerationNanoFreeUseCapIsTierIndependent(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	user := seedUser(t, db, model.TierBasic, 50)
	gen := &fakeGenerator{}

	// Bol aylık kota kalmış olsa bile nano sınırı 2'dir.
	seedRecords(t, db, user.ID, 2, "https://cdn.example.com/generations/nano-banana/a.png")

	req := baseRequest(user.ID)
	req.Provider = ProviderNano

	_, err := RequestGeneration(context.Background(), db, gen, req)

	assert.ErrorIs(t, err, ErrFreeUsesExhausted)
	assert.Zero(t, gen.calls)
}

func TestRequestGenerationNanoCountsOnlyMarkedRecords(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	user := seedUser(t, db, model.TierBasic, 50)
	gen := &fakeGenerator{result: &Result{ImageURL: "https://cdn.example.com/generations/nano-banana/b.png", Prompt: "p"}}

	seedRecords(t, db, user.ID, 5, "https://cdn.example.com/results/standard.png")
	seedRecords(t, db, user.ID, 1, "https://cdn.example.com/generations/nano-banana/a.png")

	req := baseRequest(user.ID)
	req.Provider = ProviderNano

	_, err := RequestGeneration(context.Background(), db, gen, req)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestRequestGenerationQuotaGateBlocksAtLimit(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	user := seedUser(t, db, model.TierFree, 5)
	gen := &fakeGenerator{}

	seedRecords(t, db, user.ID, 5, "https://cdn.example.com/results/x.png")

	_, err := RequestGeneration(context.Background(), db, gen, baseRequest(user.ID))

	var quotaErr *quota.ErrQuotaExceeded
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 5, quotaErr.Current)
	assert.Equal(t, 5, quotaErr.Limit)
	assert.Zero(t, gen.calls)

	var total int64
	require.NoError(t, db.Model(&model.GenerationRecord{}).Where("user_id = ?", user.ID).Count(&total).Error)
	assert.Equal(t, int64(5), total)
}

func TestRequestGenerationTemplateNotFoundWithoutPrompt(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, model.TierFree, 5)
	gen := &fakeGenerator{}

	req := baseRequest(user.ID)
	req.TemplateID = "tpl-missing"

	_, err := RequestGeneration(context.Background(), db, gen, req)

	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Zero(t, gen.calls)
}

func TestRequestGenerationCreatesAdHocTemplate(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, model.TierFree, 5)
	gen := &fakeGenerator{}

	req := baseRequest(user.ID)
	req.TemplateID = "tpl-custom"
	req.CustomPrompt = "cat wearing a space suit"
	req.TemplateName = "Astronaut"
	req.TemplateCategory = "custom"

	record, err := RequestGeneration(context.Background(), db, gen, req)
	require.NoError(t, err)
	assert.Equal(t, "tpl-custom", record.TemplateID)

	var template model.SceneTemplate
	require.NoError(t, db.First(&template, "id = ?", "tpl-custom").Error)
	assert.Equal(t, "Astronaut", template.Name)
	assert.Equal(t, "cat wearing a space suit", template.BasePrompt)
	assert.Equal(t, 1, template.UsageCount)
}

func TestRequestGenerationCustomPromptOverridesTemplate(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	user := seedUser(t, db, model.TierFree, 5)
	gen := &fakeGenerator{}

	req := baseRequest(user.ID)
	req.CustomPrompt = "my own prompt"

	record, err := RequestGeneration(context.Background(), db, gen, req)
	require.NoError(t, err)
	assert.Equal(t, "my own prompt", record.GeneratedPrompt)
}

func TestRequestGenerationFailureDoesNotPersistOrConsume(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	user := seedUser(t, db, model.TierFree, 5)
	gen := &fakeGenerator{err: errors.New("provider exploded")}

	_, err := RequestGeneration(context.Background(), db, gen, baseRequest(user.ID))

	var genErr *ErrGenerationFailed
	require.ErrorAs(t, err, &genErr)

	var total int64
	require.NoError(t, db.Model(&model.GenerationRecord{}).Where("user_id = ?", user.ID).Count(&total).Error)
	assert.Equal(t, int64(0), total)

	info, err := quota.CheckQuota(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, info.QuotaUsed)
}

func TestRequestGenerationEndToEndFifthAndSixthAttempt(t *testing.T) {
	db := setupTestDB(t)
	template := seedTemplate(t, db)
	user := seedUser(t, db, model.TierFree, 5)
	gen := &fakeGenerator{}

	seedRecords(t, db, user.ID, 4, "https://cdn.example.com/results/x.png")

	// Beşinci üretim geçer: 4 < 5.
	record, err := RequestGeneration(context.Background(), db, gen, baseRequest(user.ID))
	require.NoError(t, err)
	assert.Equal(t, template.BasePrompt, record.GeneratedPrompt)
	assert.Equal(t, 1, record.QuotaUsed)
	assert.Equal(t, model.GenerationStatusCompleted, record.Status)

	info, err := quota.CheckQuota(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, info.QuotaUsed)
	assert.Equal(t, 0, info.QuotaRemaining)

	// Altıncı deneme aynı döngüde reddedilir, kayıt yazılmaz.
	_, err = RequestGeneration(context.Background(), db, gen, baseRequest(user.ID))

	var quotaErr *quota.ErrQuotaExceeded
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 5, quotaErr.Current)
	assert.Equal(t, 5, quotaErr.Limit)

	var total int64
	require.NoError(t, db.Model(&model.GenerationRecord{}).Where("user_id = ?", user.ID).Count(&total).Error)
	assert.Equal(t, int64(5), total)
}

func TestRequestGenerationDefaultsProviderToStandard(t *testing.T) {
	db := setupTestDB(t)
	seedTemplate(t, db)
	user := seedUser(t, db, model.TierFree, 5)
	gen := &fakeGenerator{}

	req := baseRequest(user.ID)
	req.Provider = ""

	record, err := RequestGeneration(context.Background(), db, gen, req)
	require.NoError(t, err)
	assert.Equal(t, ProviderStandard, record.Provider)
}
