package model

import "time"

// SceneTemplate kayıtları ya seed kataloğundan gelir ya da kullanıcı
// kendi prompt'unu gönderdiğinde istek sırasında oluşturulur.
type SceneTemplate struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Category    string    `json:"category" gorm:"index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	BasePrompt  string    `json:"base_prompt" gorm:"not null"`
	UsageCount  int       `json:"usage_count" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
