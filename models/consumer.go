package models

import "gorm.io/gorm"

// Consumer is someone reserving portions from listings.
type Consumer struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	MobileNumber string `gorm:"uniqueIndex;not null" json:"mobile_number"`
	Email        string `gorm:"not null" json:"email"`
	Pincode      string `gorm:"size:10;index;not null" json:"pincode"`
	Password     string `gorm:"not null" json:"-"`
}
