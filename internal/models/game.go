package models

import "time"

// Game is a catalog entry shown on the homepage. Thumbnail and Asset hold
// upload storage keys, not URLs.
type Game struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Link        string    `json:"link" gorm:"size:200;not null"`
	Slug        string    `json:"slug" gorm:"size:120;uniqueIndex;not null"`
	Order       uint      `json:"order" gorm:"column:order_num;not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	Thumbnail   string    `json:"thumbnail,omitempty" gorm:"size:255"`
	Asset       string    `json:"asset,omitempty" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
