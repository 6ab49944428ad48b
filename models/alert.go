package models

import "time"

type Alert struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProviderID uint      `gorm:"index" json:"provider_id"`
	Type       string    `gorm:"size:20" json:"type"` // "booking" | "info"
	Message    string    `gorm:"type:text" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
