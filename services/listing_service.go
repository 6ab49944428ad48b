package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ShounakM04/Rescue-Bites/models"

	"gorm.io/gorm"
)

type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

type CreateListingInput struct {
	RestaurantName     string    `json:"restaurant_name" binding:"required,max=100"`
	FoodName           string    `json:"food_name" binding:"required,max=200"`
	Veg                *bool     `json:"veg" binding:"required"`
	PeopleCount        int       `json:"people_count" binding:"required"`
	ExpirationTime     time.Time `json:"expiration_time" binding:"required"`
	Longitude          float64   `json:"longitude"`
	Latitude           float64   `json:"latitude"`
	PickupInstructions string    `json:"pickup_instructions" binding:"max=500"`
	Description        string    `json:"description"`
	Images             []string  `json:"images"`
}

type UpdateListingInput struct {
	FoodName           *string    `json:"food_name"`
	Veg                *bool      `json:"veg"`
	ExpirationTime     *time.Time `json:"expiration_time"`
	PickupInstructions *string    `json:"pickup_instructions"`
	Description        *string    `json:"description"`
	Images             []string   `json:"images"`
}

type PagedListings struct {
	Listings []models.Listing `json:"listings"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Total    int              `json:"total"`
	Pages    int              `json:"pages"`
}

// NearbyListing carries the computed distance alongside the row.
type NearbyListing struct {
	models.Listing `gorm:"embedded"`
	Distance       float64 `json:"distance_meters"`
}

func (s *ListingService) Create(ctx context.Context, providerID uint, in CreateListingInput) (*models.Listing, error) {
	if in.PeopleCount < 1 || in.PeopleCount > 1000 {
		return nil, validationErrorf("people_count must be between 1 and 1000")
	}
	if in.Longitude < -180 || in.Longitude > 180 || in.Latitude < -90 || in.Latitude > 90 {
		return nil, validationErrorf("invalid coordinates [longitude, latitude]")
	}

	now := time.Now()
	if !in.ExpirationTime.After(now) {
		return nil, validationErrorf("expiration_time must be in the future")
	}

	listing := &models.Listing{
		RestaurantName:     in.RestaurantName,
		FoodName:           in.FoodName,
		Veg:                *in.Veg,
		TotalCount:         in.PeopleCount,
		PeopleCount:        in.PeopleCount,
		ProviderID:         providerID,
		ListedAt:           now,
		ExpirationTime:     in.ExpirationTime,
		Status:             models.ListingStatusActive,
		Longitude:          in.Longitude,
		Latitude:           in.Latitude,
		PickupInstructions: in.PickupInstructions,
		Description:        in.Description,
		Images:             in.Images,
	}
	if err := s.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// ListPaged returns listings that still have portions, paged. When a pincode
// is given the filter runs in the application over the provider relation —
// pincode belongs to the provider, not the listing — and total/pages are
// computed from the filtered count.
func (s *ListingService) ListPaged(ctx context.Context, page, limit int, pincode string) (*PagedListings, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	base := s.db.WithContext(ctx).Model(&models.Listing{}).Where("people_count > 0")

	if pincode != "" {
		var all []models.Listing
		if err := base.Preload("Provider").Order("created_at DESC").Find(&all).Error; err != nil {
			return nil, err
		}
		filtered := all[:0]
		for _, l := range all {
			if l.Provider.Pincode == pincode {
				filtered = append(filtered, l)
			}
		}
		return paginate(filtered, page, limit), nil
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var listings []models.Listing
	err := s.db.WithContext(ctx).
		Preload("Provider").
		Where("people_count > 0").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}

	return &PagedListings{
		Listings: listings,
		Page:     page,
		Limit:    limit,
		Total:    int(total),
		Pages:    int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// paginate slices an already-filtered result set.
func paginate(listings []models.Listing, page, limit int) *PagedListings {
	total := len(listings)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return &PagedListings{
		Listings: listings[start:end],
		Page:     page,
		Limit:    limit,
		Total:    total,
		Pages:    int(math.Ceil(float64(total) / float64(limit))),
	}
}

// Nearby returns active, unexpired listings with portions left within
// maxDistance meters of the point, nearest first. The haversine runs in SQL
// so the ordering comes straight from the store.
func (s *ListingService) Nearby(ctx context.Context, longitude, latitude, maxDistance float64, pincode string) ([]NearbyListing, error) {
	if maxDistance <= 0 {
		maxDistance = 5000
	}
	if longitude < -180 || longitude > 180 || latitude < -90 || latitude > 90 {
		return nil, validationErrorf("invalid coordinates [longitude, latitude]")
	}

	const query = `
		SELECT * FROM (
			SELECT *,
				6371000 * acos(least(1.0,
					cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?))
					+ sin(radians(?)) * sin(radians(latitude))
				)) AS distance
			FROM listings
			WHERE people_count > 0
			  AND status = 'active'
			  AND expiration_time > now()
			  AND deleted_at IS NULL
		) nearby
		WHERE distance <= ?
		ORDER BY distance ASC`

	var rows []NearbyListing
	err := s.db.WithContext(ctx).
		Raw(query, latitude, longitude, latitude, maxDistance).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	if pincode != "" {
		rows, err = s.filterByProviderPincode(ctx, rows, pincode)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// filterByProviderPincode drops listings whose provider sits in a different
// pincode. Runs after the spatial query, preserving its ordering.
func (s *ListingService) filterByProviderPincode(ctx context.Context, rows []NearbyListing, pincode string) ([]NearbyListing, error) {
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ProviderID)
	}
	if len(ids) == 0 {
		return rows, nil
	}

	var providers []models.Provider
	if err := s.db.WithContext(ctx).
		Where("id IN ? AND pincode = ?", ids, pincode).
		Find(&providers).Error; err != nil {
		return nil, err
	}
	match := make(map[uint]bool, len(providers))
	for _, p := range providers {
		match[p.ID] = true
	}

	out := rows[:0]
	for _, r := range rows {
		if match[r.ProviderID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Search runs a full-text match over food and restaurant names, best match
// first, listings with portions left only.
func (s *ListingService) Search(ctx context.Context, q string) ([]models.Listing, error) {
	if q == "" {
		return nil, validationErrorf("search query is required")
	}

	const query = `
		SELECT * FROM listings
		WHERE people_count > 0
		  AND deleted_at IS NULL
		  AND to_tsvector('english', food_name || ' ' || restaurant_name)
		      @@ plainto_tsquery('english', ?)
		ORDER BY ts_rank(
			to_tsvector('english', food_name || ' ' || restaurant_name),
			plainto_tsquery('english', ?)
		) DESC`

	var listings []models.Listing
	err := s.db.WithContext(ctx).Raw(query, q, q).Scan(&listings).Error
	return listings, err
}

// Popular returns the most-viewed listings that still have portions.
func (s *ListingService) Popular(ctx context.Context, limit int) ([]models.Listing, error) {
	if limit < 1 {
		limit = 10
	}

	var listings []models.Listing
	err := s.db.WithContext(ctx).
		Where("people_count > 0").
		Order("view_count DESC").
		Limit(limit).
		Find(&listings).Error
	return listings, err
}

// GetByID looks up a single claimable listing and counts the view.
func (s *ListingService) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.WithContext(ctx).
		Preload("Provider").
		Where("id = ? AND people_count > 0", id).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	// View counter feeds the popularity ranking; last-writer-wins is fine
	// everywhere except here, so the bump is a column expression.
	s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	listing.ViewCount++

	return &listing, nil
}

// UpdateStatus applies the owning provider's manual status change, then
// re-derives the automatic transitions. Only the status columns are written;
// capacity moves exclusively through the claim path.
func (s *ListingService) UpdateStatus(ctx context.Context, id, providerID uint, status string) (*models.Listing, error) {
	switch status {
	case models.ListingStatusActive, models.ListingStatusClaimed, models.ListingStatusCancelled:
	default:
		return nil, validationErrorf("invalid status value %q", status)
	}

	var listing models.Listing
	err := s.db.WithContext(ctx).First(&listing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.ProviderID != providerID {
		return nil, ErrNotOwner
	}

	listing.Status = status
	listing.Normalize(time.Now())
	err = s.db.WithContext(ctx).Model(&listing).
		Updates(map[string]any{
			"status":            listing.Status,
			"time_to_claim_sec": listing.TimeToClaimSec,
		}).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Update edits the mutable listing fields. Capacity is not among them; it
// only moves through claims.
func (s *ListingService) Update(ctx context.Context, id, providerID uint, in UpdateListingInput) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.WithContext(ctx).First(&listing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.ProviderID != providerID {
		return nil, ErrNotOwner
	}

	if in.FoodName != nil {
		listing.FoodName = *in.FoodName
	}
	if in.Veg != nil {
		listing.Veg = *in.Veg
	}
	if in.ExpirationTime != nil {
		listing.ExpirationTime = *in.ExpirationTime
	}
	if in.PickupInstructions != nil {
		listing.PickupInstructions = *in.PickupInstructions
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.Images != nil {
		listing.Images = in.Images
	}

	listing.Normalize(time.Now())
	// The counters are written only by the claim path and the view bump; a
	// full-row save here could clobber a decrement that landed since First.
	err = s.db.WithContext(ctx).
		Omit("people_count", "total_count", "view_count").
		Save(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Delete removes a provider's own listing (soft delete).
func (s *ListingService) Delete(ctx context.Context, id, providerID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", id, providerID).
		Delete(&models.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrListingNotFound
	}
	return nil
}
