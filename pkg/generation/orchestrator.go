package generation

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/quota"
)

type Request struct {
	UserID           uint
	TemplateID       string
	UploadedImageURL string
	CustomPrompt     string
	Provider         string
	Options          Options

	// Bilinmeyen templateId + dolu prompt ile ad hoc şablon oluşturulur.
	TemplateName        string
	TemplateDescription string
	TemplateCategory    string
	TemplateThumbnail   string
}

// RequestGeneration tek bir üretim denemesini kapılar, dış sağlayıcıyı
// çağırır ve başarılıysa kaydı yazar. Başarısız denemeler persist edilmez
// ve kotadan düşmez.
func RequestGeneration(ctx context.Context, db *gorm.DB, gen Generator, req Request) (*model.GenerationRecord, error) {
	if req.Provider == "" {
		req.Provider = ProviderStandard
	}

	var sub model.UserSubscription
	if err := db.Where("user_id = ?", req.UserID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quota.ErrSubscriptionNotFound
		}
		return nil, err
	}

	// Policy tablosu, sırayla; ilk eşleşen kazanır.
	if req.Provider == ProviderPro && sub.Tier == model.TierFree {
		return nil, ErrUpgradeRequired
	}

	if req.Provider == ProviderNano {
		var nanoUses int64
		if err := db.Model(&model.GenerationRecord{}).
			Where("user_id = ? AND result_image_url LIKE ?", req.UserID, "%"+NanoMarker+"%").
			Count(&nanoUses).Error; err != nil {
			return nil, err
		}
		if nanoUses >= NanoFreeUses {
			return nil, ErrFreeUsesExhausted
		}
	}

	if err := checkMonthlyQuota(db, &sub); err != nil {
		return nil, err
	}

	template, err := resolveTemplate(db, &req)
	if err != nil {
		return nil, err
	}

	prompt := template.BasePrompt
	if req.CustomPrompt != "" {
		prompt = req.CustomPrompt
	}

	result, err := gen.Generate(ctx, Input{
		ImageURL: req.UploadedImageURL,
		Prompt:   prompt,
		Options:  req.Options,
	})
	if err != nil {
		return nil, &ErrGenerationFailed{Reason: err}
	}

	optionsJSON, _ := json.Marshal(req.Options)

	record := model.GenerationRecord{
		UserID:           req.UserID,
		UploadedPhotoURL: req.UploadedImageURL,
		TemplateID:       template.ID,
		ResultImageURL:   result.ImageURL,
		GeneratedPrompt:  result.Prompt,
		Provider:         req.Provider,
		Options:          datatypes.JSON(optionsJSON),
		QuotaUsed:        1,
		Status:           model.GenerationStatusCompleted,
	}

	// Sayım ve insert tek transaction'da yeniden yapılır; son kota birimini
	// iki eşzamanlı istek birden alamaz. Dış çağrı transaction dışında
	// kalır, 300 saniyelik bir HTTP çağrısı boyunca kilit tutulmaz.
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := checkMonthlyQuota(tx, &sub); err != nil {
			return err
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&model.SceneTemplate{}).
			Where("id = ?", template.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func checkMonthlyQuota(db *gorm.DB, sub *model.UserSubscription) error {
	var used int64
	if err := db.Model(&model.GenerationRecord{}).
		Where("user_id = ? AND created_at >= ?", sub.UserID, sub.QuotaResetDate).
		Count(&used).Error; err != nil {
		return err
	}
	if int(used) >= sub.QuotaMonth {
		return &quota.ErrQuotaExceeded{Current: int(used), Limit: sub.QuotaMonth}
	}
	return nil
}

// resolveTemplate get-or-create'dir: bilinmeyen id için dolu bir prompt
// şarttır; unique ihlalinde yarışı kaybeden taraf satırı yeniden okur.
func resolveTemplate(db *gorm.DB, req *Request) (*model.SceneTemplate, error) {
	var template model.SceneTemplate
	if req.TemplateID != "" {
		err := db.First(&template, "id = ?", req.TemplateID).Error
		if err == nil {
			return &template, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if req.CustomPrompt == "" {
		return nil, ErrTemplateNotFound
	}

	template = model.SceneTemplate{
		ID:          req.TemplateID,
		Category:    req.TemplateCategory,
		Name:        req.TemplateName,
		Description: req.TemplateDescription,
		Thumbnail:   req.TemplateThumbnail,
		BasePrompt:  req.CustomPrompt,
	}
	if template.ID == "" {
		template.ID = uuid.New().String()
	}
	if template.Category == "" {
		template.Category = "custom"
	}
	if template.Name == "" {
		template.Name = "Custom template"
	}

	if err := db.Create(&template).Error; err != nil {
		// Aynı ad hoc id'yi iki istek aynı anda oluşturmuş olabilir.
		var existing model.SceneTemplate
		if refetchErr := db.First(&existing, "id = ?", template.ID).Error; refetchErr == nil {
			return &existing, nil
		}
		return nil, err
	}

	return &template, nil
}
