package services

import (
	"context"
	"time"

	"github.com/ShounakM04/Rescue-Bites/models"

	"gorm.io/gorm"
)

type MetricsService struct {
	db *gorm.DB
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

// ProviderMetrics is the read-only rollup behind the provider dashboard.
type ProviderMetrics struct {
	AcceptedRequests int64 `json:"acceptedRequests"`
	PendingRequests  int64 `json:"pendingRequests"`
	RejectedRequests int64 `json:"rejectedRequests"`
	TotalMealsSaved  int64 `json:"totalMealsSaved"`
	PeopleFed        int64 `json:"peopleFed"`
	ActiveListings   int64 `json:"activeListings"`
}

// ForProvider aggregates bookings and listings for one provider. Bookings
// carry a denormalized provider_id, so no join through listings is needed.
// Empty data yields zeros, never an error.
func (s *MetricsService) ForProvider(ctx context.Context, providerID uint) (*ProviderMetrics, error) {
	m := &ProviderMetrics{}

	counts := []struct {
		status string
		dst    *int64
	}{
		{models.BookingStatusConfirmed, &m.AcceptedRequests},
		{models.BookingStatusPending, &m.PendingRequests},
		{models.BookingStatusCancelled, &m.RejectedRequests},
	}
	for _, c := range counts {
		err := s.db.WithContext(ctx).Model(&models.Booking{}).
			Where("provider_id = ? AND status = ?", providerID, c.status).
			Count(c.dst).Error
		if err != nil {
			return nil, err
		}
	}

	// Meals saved counts the portions ever offered, not what happens to
	// still be unclaimed, so it only grows.
	err := s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("provider_id = ?", providerID).
		Select("COALESCE(SUM(total_count), 0)").
		Scan(&m.TotalMealsSaved).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("provider_id = ? AND status = ?", providerID, models.BookingStatusConfirmed).
		Select("COALESCE(SUM(people_booked), 0)").
		Scan(&m.PeopleFed).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("provider_id = ? AND status = ? AND expiration_time > ?",
			providerID, models.ListingStatusActive, time.Now()).
		Count(&m.ActiveListings).Error
	if err != nil {
		return nil, err
	}

	return m, nil
}
