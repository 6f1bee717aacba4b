package model

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`

	// İlişkiler
	Subscription *UserSubscription  `json:"-" gorm:"foreignKey:UserID"`
	Generations  []GenerationRecord `json:"-"`
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"avatar":     u.Avatar,
		"created_at": u.CreatedAt,
	}
}
