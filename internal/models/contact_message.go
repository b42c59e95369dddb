package models

import "time"

// ContactMessage is a stored contact form submission. It is never updated.
type ContactMessage struct {
	ID        int64     `json:"id" gorm:"primaryKey" schema:"-"`
	Name      string    `json:"name" gorm:"size:120;not null" schema:"name"`
	Email     string    `json:"email" gorm:"size:254;not null" schema:"email"`
	Message   string    `json:"message" gorm:"type:text;not null" schema:"message"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index" schema:"-"`
}
