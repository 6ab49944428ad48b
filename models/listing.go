package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing statuses. A listing starts active and moves to exactly one of the
// other states; claimed and cancelled are terminal.
const (
	ListingStatusActive    = "active"
	ListingStatusClaimed   = "claimed"
	ListingStatusExpired   = "expired"
	ListingStatusCancelled = "cancelled"
)

// Listing is a batch of surplus food posted by a provider.
//
// TotalCount is the number of portions offered when the listing was created
// and never changes; PeopleCount is what is still unclaimed and is only ever
// decremented by bookings. Keeping them separate lets the provider metrics
// report meals offered without the number shrinking as food gets claimed.
type Listing struct {
	gorm.Model
	RestaurantName     string    `gorm:"size:100;not null;index" json:"restaurant_name"`
	FoodName           string    `gorm:"size:200;not null;index" json:"food_name"`
	Veg                bool      `gorm:"not null" json:"veg"`
	TotalCount         int       `gorm:"not null" json:"total_count"`
	PeopleCount        int       `gorm:"not null" json:"people_count"`
	ProviderID         uint      `gorm:"index;not null" json:"provider_id"`
	Provider           Provider  `json:"provider,omitempty"`
	ListedAt           time.Time `json:"listed_at"`
	ExpirationTime     time.Time `gorm:"index;not null" json:"expiration_time"`
	Status             string    `gorm:"size:16;default:'active';index" json:"status"`
	Longitude          float64   `json:"longitude"`
	Latitude           float64   `json:"latitude"`
	PickupInstructions string    `gorm:"size:500" json:"pickup_instructions,omitempty"`
	Description        string    `gorm:"type:text" json:"description,omitempty"`
	Images             []string  `gorm:"serializer:json" json:"images,omitempty"`
	ViewCount          int       `gorm:"default:0" json:"view_count"`
	TimeToClaimSec     *int64    `json:"time_to_claim_sec,omitempty"`
}

// Normalize applies the automatic status transitions: a listing whose
// remaining capacity hit zero is claimed, an active listing past its
// expiration time is expired. Terminal states reached earlier are left alone.
// Returns true when the listing changed and needs to be saved.
func (l *Listing) Normalize(now time.Time) bool {
	changed := false

	if l.Status == ListingStatusActive && l.PeopleCount <= 0 {
		l.Status = ListingStatusClaimed
		if l.TimeToClaimSec == nil {
			secs := int64(now.Sub(l.ListedAt) / time.Second)
			if secs < 0 {
				secs = 0
			}
			l.TimeToClaimSec = &secs
		}
		changed = true
	}

	if l.Status == ListingStatusActive && now.After(l.ExpirationTime) {
		l.Status = ListingStatusExpired
		changed = true
	}

	return changed
}

// Available reports whether the listing can still be claimed.
func (l *Listing) Available(now time.Time) bool {
	return l.Status == ListingStatusActive &&
		l.PeopleCount > 0 &&
		l.ExpirationTime.After(now)
}
