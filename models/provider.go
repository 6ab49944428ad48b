package models

import "gorm.io/gorm"

// Provider is a restaurant posting surplus food.
type Provider struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Address      string `gorm:"not null" json:"address"`
	MobileNumber string `gorm:"uniqueIndex;not null" json:"mobile_number"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Pincode      string `gorm:"size:10;index;not null" json:"pincode"`
	Password     string `gorm:"not null" json:"-"`
}
