package model

import "gorm.io/gorm"

type BlogPost struct {
	gorm.Model
	Title     string `json:"title" gorm:"not null"`
	Slug      string `json:"slug" gorm:"uniqueIndex;not null"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	CoverURL  string `json:"cover_url"`
	Published bool   `json:"published" gorm:"default:false"`
	Views     int    `json:"views" gorm:"default:0"`
}
