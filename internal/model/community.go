package model

import "gorm.io/gorm"

// CommunityPost bir GenerationRecord'un halka açık galeride paylaşımıdır.
type CommunityPost struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"index;not null"`
	GenerationID uint   `json:"generation_id" gorm:"index;not null"`
	Title        string `json:"title"`
	Likes        int    `json:"likes" gorm:"default:0"`
	Approved     bool   `json:"approved" gorm:"default:true"`

	User       User             `json:"-" gorm:"foreignKey:UserID"`
	Generation GenerationRecord `json:"-" gorm:"foreignKey:GenerationID"`
}
