package services

import (
	"fmt"
	"log"
	"time"

	"github.com/ShounakM04/Rescue-Bites/models"
	"github.com/ShounakM04/Rescue-Bites/utils"

	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitBookingAlert tells the provider about a fresh claim on one of their
// listings. The whole fan-out runs off the request path; the claim never
// waits on the alert row, the socket, SNS or SES, and never fails because of
// them. Inputs are copied so the goroutine sees a stable snapshot.
func EmitBookingAlert(booking *models.Booking, listing *models.Listing) {
	deps := _alert
	if deps.db == nil {
		return // not initialized
	}
	b := *booking
	l := *listing

	go func() {
		msg := fmt.Sprintf("%d portion(s) of %q claimed, %d remaining",
			b.PeopleBooked, l.FoodName, l.PeopleCount)
		a := &models.Alert{
			ProviderID: l.ProviderID,
			Type:       "booking",
			Message:    msg,
			CreatedAt:  time.Now(),
		}
		_ = deps.db.Create(a).Error

		if deps.rt != nil {
			deps.rt.BroadcastAlert(l.ProviderID, map[string]any{
				"kind":    "booking.created",
				"alert":   a,
				"booking": &b,
			})
		}
		if deps.ps != nil {
			deps.ps.PushToProvider(l.ProviderID, "New booking", msg, map[string]string{
				"bookingId": fmt.Sprintf("%d", b.ID),
				"listingId": fmt.Sprintf("%d", l.ID),
			})
		}

		var provider models.Provider
		if err := deps.db.First(&provider, l.ProviderID).Error; err != nil {
			return
		}
		if err := utils.SendBookingEmail(provider.Email, l.FoodName,
			b.PeopleBooked, l.PeopleCount); err != nil {
			log.Printf("booking email to provider %d failed: %v", provider.ID, err)
		}
	}()
}
