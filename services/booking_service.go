package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ShounakM04/Rescue-Bites/models"

	"gorm.io/gorm"
)

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// CreateBooking turns a consumer's claim into a durable booking.
//
// The remaining-capacity check and the decrement are a single conditional
// UPDATE, so two concurrent claims can never both succeed against stale
// capacity: the database either applies the decrement while enough portions
// remain or touches nothing. Everything before the UPDATE is a fast-fail
// courtesy check only.
func (s *BookingService) CreateBooking(ctx context.Context, listingID, consumerID uint, peopleBooked int) (*models.Booking, *models.Listing, error) {
	if peopleBooked < 1 {
		return nil, nil, validationErrorf("people_booked must be at least 1")
	}

	now := time.Now()

	var listing models.Listing
	err := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", listingID, models.ListingStatusActive).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Log whether it was missing or just inactive; the caller gets
			// the same answer either way.
			var count int64
			s.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", listingID).Count(&count)
			if count > 0 {
				log.Printf("booking rejected: listing %d exists but is not active", listingID)
			} else {
				log.Printf("booking rejected: listing %d does not exist", listingID)
			}
			return nil, nil, ErrListingNotAvailable
		}
		return nil, nil, err
	}

	// Lazy expiry: the stored status can lag the clock between requests.
	if listing.Normalize(now) {
		if err := s.persistStatus(ctx, &listing); err != nil {
			return nil, nil, err
		}
	}
	if !listing.Available(now) {
		return nil, nil, ErrListingNotAvailable
	}

	if listing.PeopleCount < peopleBooked {
		return nil, nil, &CapacityError{Remaining: listing.PeopleCount}
	}

	// The atomic claim: decrement only if enough portions are still there at
	// write time.
	res := s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ? AND status = ? AND people_count >= ?",
			listingID, models.ListingStatusActive, peopleBooked).
		UpdateColumn("people_count", gorm.Expr("people_count - ?", peopleBooked))
	if res.Error != nil {
		return nil, nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race. A capacity answer only makes sense if the listing
		// is still active; a mid-race status flip is a different failure.
		var current models.Listing
		if err := s.db.WithContext(ctx).First(&current, listingID).Error; err != nil {
			return nil, nil, ErrListingNotAvailable
		}
		if current.Status != models.ListingStatusActive {
			return nil, nil, ErrListingNotAvailable
		}
		return nil, nil, &CapacityError{Remaining: current.PeopleCount}
	}

	// Re-read the snapshot we just wrote; flips to claimed when the
	// decrement drove capacity to zero.
	if err := s.db.WithContext(ctx).First(&listing, listingID).Error; err != nil {
		return nil, nil, err
	}
	if listing.Normalize(now) {
		if err := s.persistStatus(ctx, &listing); err != nil {
			return nil, nil, err
		}
	}

	booking := &models.Booking{
		ListingID:    listingID,
		ConsumerID:   consumerID,
		ProviderID:   listing.ProviderID,
		PeopleBooked: peopleBooked,
		Status:       models.BookingStatusConfirmed,
	}
	if err := s.db.WithContext(ctx).Create(booking).Error; err != nil {
		s.compensateClaim(ctx, listingID, peopleBooked)
		return nil, nil, err
	}

	EmitBookingAlert(booking, &listing)

	return booking, &listing, nil
}

// persistStatus writes only the columns Normalize touches. The capacity
// counters move exclusively through the conditional claim UPDATE; a full-row
// write here could overwrite a decrement that landed since the read.
func (s *BookingService) persistStatus(ctx context.Context, l *models.Listing) error {
	return s.db.WithContext(ctx).Model(l).
		Updates(map[string]any{
			"status":            l.Status,
			"time_to_claim_sec": l.TimeToClaimSec,
		}).Error
}

// compensateClaim gives portions back when the booking insert failed after a
// successful decrement, so no capacity is stranded.
func (s *BookingService) compensateClaim(ctx context.Context, listingID uint, peopleBooked int) {
	err := s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", listingID).
		UpdateColumn("people_count", gorm.Expr("people_count + ?", peopleBooked)).Error
	if err != nil {
		log.Printf("claim compensation failed for listing %d (+%d portions): %v",
			listingID, peopleBooked, err)
		return
	}

	// If the failed claim had flipped the listing to claimed, reopen it.
	err = s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ? AND status = ? AND people_count > 0", listingID, models.ListingStatusClaimed).
		UpdateColumns(map[string]any{
			"status":            models.ListingStatusActive,
			"time_to_claim_sec": nil,
		}).Error
	if err != nil {
		log.Printf("claim compensation could not reopen listing %d: %v", listingID, err)
	}
}

// BookingsByConsumer returns the consumer's bookings, newest first, with the
// listing attached.
func (s *BookingService) BookingsByConsumer(ctx context.Context, consumerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Listing").
		Where("consumer_id = ?", consumerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// UpdateBookingStatus lets the owning provider move a booking between
// pending, confirmed and cancelled. It never touches listing capacity; the
// decrement happened once, at creation.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID, providerID uint, status string) (*models.Booking, error) {
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled:
	default:
		return nil, validationErrorf("invalid booking status %q", status)
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.ProviderID != providerID {
		return nil, ErrBookingNotFound
	}

	booking.Status = status
	if err := s.db.WithContext(ctx).Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}
