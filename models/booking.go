package models

import "gorm.io/gorm"

// Booking statuses. Bookings are created confirmed by the claim flow; the
// provider can later move them to pending or cancelled.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is one consumer's reservation against a listing. ProviderID is
// copied from the listing at creation time so the provider dashboard rollups
// never have to join through listings.
type Booking struct {
	gorm.Model
	ListingID    uint    `gorm:"index;not null" json:"listing_id"`
	Listing      Listing `json:"listing,omitempty"`
	ConsumerID   uint    `gorm:"index;not null" json:"consumer_id"`
	ProviderID   uint    `gorm:"index;not null" json:"provider_id"`
	PeopleBooked int     `gorm:"not null" json:"people_booked"`
	Status       string  `gorm:"size:16;default:'pending'" json:"status"`
}
