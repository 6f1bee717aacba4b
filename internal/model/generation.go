package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GenerationStatusCompleted = "completed"
	GenerationStatusFailed    = "failed"
)

type GenerationRecord struct {
	gorm.Model
	UserID           uint           `json:"user_id" gorm:"index;not null"`
	UploadedPhotoURL string         `json:"uploaded_photo_url" gorm:"not null"`
	TemplateID       string         `json:"template_id" gorm:"index;not null"`
	ResultImageURL   string         `json:"result_image_url"`
	GeneratedPrompt  string         `json:"generated_prompt"`
	Provider         string         `json:"provider"`
	Options          datatypes.JSON `json:"options"`
	QuotaUsed        int            `json:"quota_used" gorm:"default:1"`
	Status           string         `json:"status" gorm:"default:'completed'"`

	// İlişkiler
	User     User          `json:"-" gorm:"foreignKey:UserID"`
	Template SceneTemplate `json:"-" gorm:"foreignKey:TemplateID"`
}
