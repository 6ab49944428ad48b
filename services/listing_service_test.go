package services

import (
	"context"
	"testing"
	"time"

	"github.com/ShounakM04/Rescue-Bites/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateListingValidation(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	svc := NewListingService(db)
	veg := true

	base := CreateListingInput{
		RestaurantName: "Tandoor House",
		FoodName:       "Veg Thali",
		Veg:            &veg,
		PeopleCount:    10,
		ExpirationTime: time.Now().Add(2 * time.Hour),
		Longitude:      77.59,
		Latitude:       12.97,
	}

	cases := []struct {
		name   string
		mutate func(in *CreateListingInput)
	}{
		{"zero portions", func(in *CreateListingInput) { in.PeopleCount = 0 }},
		{"too many portions", func(in *CreateListingInput) { in.PeopleCount = 1001 }},
		{"longitude out of range", func(in *CreateListingInput) { in.Longitude = 181 }},
		{"latitude out of range", func(in *CreateListingInput) { in.Latitude = -91 }},
		{"expiration in the past", func(in *CreateListingInput) { in.ExpirationTime = time.Now().Add(-time.Minute) }},
	}
	for _, tc := range cases {
		in := base
		tc.mutate(&in)
		_, err := svc.Create(context.Background(), provider.ID, in)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr, tc.name)
	}

	listing, err := svc.Create(context.Background(), provider.ID, base)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusActive, listing.Status)
	assert.Equal(t, 10, listing.TotalCount)
	assert.Equal(t, 10, listing.PeopleCount)
	assert.False(t, listing.ListedAt.IsZero())
}

func TestListPagedFiltersByProviderPincode(t *testing.T) {
	db := openTestDB(t)
	near := seedProvider(t, db, "560001")
	far := seedProvider(t, db, "411001")
	for i := 0; i < 3; i++ {
		seedListing(t, db, seedListingOpts{people: 5, provider: near.ID})
	}
	seedListing(t, db, seedListingOpts{people: 5, provider: far.ID})

	svc := NewListingService(db)

	paged, err := svc.ListPaged(context.Background(), 1, 2, "560001")
	require.NoError(t, err)

	// Totals come from the filtered set, not the raw table.
	assert.Equal(t, 3, paged.Total)
	assert.Equal(t, 2, paged.Pages)
	require.Len(t, paged.Listings, 2)
	for _, l := range paged.Listings {
		assert.Equal(t, near.ID, l.ProviderID)
	}

	paged, err = svc.ListPaged(context.Background(), 2, 2, "560001")
	require.NoError(t, err)
	assert.Len(t, paged.Listings, 1)
}

func TestListPagedSkipsSoldOut(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	seedListing(t, db, seedListingOpts{people: 5, provider: provider.ID})
	soldOut := seedListing(t, db, seedListingOpts{people: 2, provider: provider.ID})
	require.NoError(t, db.Model(soldOut).UpdateColumn("people_count", 0).Error)

	svc := NewListingService(db)
	paged, err := svc.ListPaged(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 1, paged.Total)
	require.Len(t, paged.Listings, 1)
	assert.NotEqual(t, soldOut.ID, paged.Listings[0].ID)
}

func TestNearbyOrdersByDistanceAndCutsOff(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")

	// Search point is central Bengaluru. 0.009 degrees of latitude is
	// roughly one kilometre.
	const lon, lat = 77.5946, 12.9716
	closest := seedListing(t, db, seedListingOpts{food: "Idli", people: 5, provider: provider.ID, lon: lon, lat: lat + 0.004})
	farther := seedListing(t, db, seedListingOpts{food: "Dosa", people: 5, provider: provider.ID, lon: lon, lat: lat + 0.03})
	seedListing(t, db, seedListingOpts{food: "Vada", people: 5, provider: provider.ID, lon: lon, lat: lat + 0.9})

	svc := NewListingService(db)
	rows, err := svc.Nearby(context.Background(), lon, lat, 5000, "")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, closest.ID, rows[0].ID)
	assert.Equal(t, farther.ID, rows[1].ID)
	assert.Less(t, rows[0].Distance, rows[1].Distance)
	assert.Less(t, rows[1].Distance, 5000.0)
}

func TestNearbyExcludesUnavailable(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	const lon, lat = 77.5946, 12.9716

	ok := seedListing(t, db, seedListingOpts{people: 5, provider: provider.ID, lon: lon, lat: lat})
	seedListing(t, db, seedListingOpts{people: 5, provider: provider.ID, lon: lon, lat: lat, expires: time.Now().Add(-time.Minute)})
	seedListing(t, db, seedListingOpts{people: 5, provider: provider.ID, lon: lon, lat: lat, status: models.ListingStatusCancelled})
	soldOut := seedListing(t, db, seedListingOpts{people: 1, provider: provider.ID, lon: lon, lat: lat})
	require.NoError(t, db.Model(soldOut).UpdateColumn("people_count", 0).Error)

	svc := NewListingService(db)
	rows, err := svc.Nearby(context.Background(), lon, lat, 5000, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ok.ID, rows[0].ID)
}

func TestNearbyPincodeFilterKeepsOrdering(t *testing.T) {
	db := openTestDB(t)
	near := seedProvider(t, db, "560001")
	other := seedProvider(t, db, "411001")
	const lon, lat = 77.5946, 12.9716

	first := seedListing(t, db, seedListingOpts{people: 5, provider: near.ID, lon: lon, lat: lat + 0.002})
	seedListing(t, db, seedListingOpts{people: 5, provider: other.ID, lon: lon, lat: lat + 0.004})
	second := seedListing(t, db, seedListingOpts{people: 5, provider: near.ID, lon: lon, lat: lat + 0.006})

	svc := NewListingService(db)
	rows, err := svc.Nearby(context.Background(), lon, lat, 5000, "560001")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, second.ID, rows[1].ID)
}

func TestSearchRanksMatches(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	paneer := seedListing(t, db, seedListingOpts{food: "Paneer Butter Masala", restaurant: "Punjabi Dhaba", people: 5, provider: provider.ID})
	seedListing(t, db, seedListingOpts{food: "Dal Fry", restaurant: "Punjabi Dhaba", people: 5, provider: provider.ID})

	svc := NewListingService(db)

	rows, err := svc.Search(context.Background(), "paneer")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, paneer.ID, rows[0].ID)

	// Restaurant names are searchable too.
	rows, err = svc.Search(context.Background(), "punjabi dhaba")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = svc.Search(context.Background(), "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestPopularOrdersByViews(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	for _, views := range []int{50, 10, 30, 5} {
		seedListing(t, db, seedListingOpts{people: 5, provider: provider.ID, views: views})
	}

	svc := NewListingService(db)
	rows, err := svc.Popular(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []int{50, 30, 10}, []int{rows[0].ViewCount, rows[1].ViewCount, rows[2].ViewCount})
}

func TestGetByIDBumpsViewCount(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	listing := seedListing(t, db, seedListingOpts{people: 5, provider: provider.ID, views: 7})

	svc := NewListingService(db)

	got, err := svc.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.ViewCount)
	assert.Equal(t, "560001", got.Provider.Pincode)

	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, 8, reloaded.ViewCount)
}

func TestGetByIDSoldOutNotFound(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	listing := seedListing(t, db, seedListingOpts{people: 1, provider: provider.ID})
	require.NoError(t, db.Model(listing).UpdateColumn("people_count", 0).Error)

	svc := NewListingService(db)
	_, err := svc.GetByID(context.Background(), listing.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestUpdateListingOwnership(t *testing.T) {
	db := openTestDB(t)
	owner := seedProvider(t, db, "560001")
	other := seedProvider(t, db, "411001")
	listing := seedListing(t, db, seedListingOpts{people: 5, provider: owner.ID})

	svc := NewListingService(db)
	name := "Masala Dosa"

	_, err := svc.Update(context.Background(), listing.ID, other.ID, UpdateListingInput{FoodName: &name})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(context.Background(), listing.ID, owner.ID, UpdateListingInput{FoodName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Masala Dosa", updated.FoodName)
	assert.Equal(t, 5, updated.PeopleCount)
}

func TestDeleteListingOwnerScoped(t *testing.T) {
	db := openTestDB(t)
	owner := seedProvider(t, db, "560001")
	other := seedProvider(t, db, "411001")
	listing := seedListing(t, db, seedListingOpts{people: 5, provider: owner.ID})

	svc := NewListingService(db)

	err := svc.Delete(context.Background(), listing.ID, other.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)

	require.NoError(t, svc.Delete(context.Background(), listing.ID, owner.ID))

	_, err = svc.GetByID(context.Background(), listing.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestUpdateStatusRejectsExpiredValue(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	listing := seedListing(t, db, seedListingOpts{people: 5, provider: provider.ID})

	svc := NewListingService(db)

	// Expired is derived from the clock, never set by hand.
	_, err := svc.UpdateStatus(context.Background(), listing.ID, provider.ID, models.ListingStatusExpired)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	updated, err := svc.UpdateStatus(context.Background(), listing.ID, provider.ID, models.ListingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusCancelled, updated.Status)
}

func TestUpdateStatusOwnerScoped(t *testing.T) {
	db := openTestDB(t)
	owner := seedProvider(t, db, "560001")
	other := seedProvider(t, db, "411001")
	listing := seedListing(t, db, seedListingOpts{people: 5, provider: owner.ID})

	svc := NewListingService(db)

	_, err := svc.UpdateStatus(context.Background(), listing.ID, other.ID, models.ListingStatusCancelled)
	assert.ErrorIs(t, err, ErrNotOwner)

	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ListingStatusActive, reloaded.Status)
}

// claimDuringNextListingWrite arranges for a booking to land between a
// listing write's read and its UPDATE, using a one-shot update callback.
func claimDuringNextListingWrite(t *testing.T, db *gorm.DB, listingID, consumerID uint, people int) *bool {
	t.Helper()
	fired := false
	err := db.Callback().Update().Before("gorm:update").
		Register("test_claim_between_read_and_write", func(tx *gorm.DB) {
			if fired || tx.Statement.Table != "listings" {
				return
			}
			fired = true
			_, _, err := NewBookingService(db).CreateBooking(context.Background(), listingID, consumerID, people)
			assert.NoError(t, err)
		})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Callback().Update().Remove("test_claim_between_read_and_write")
	})
	return &fired
}

func TestUpdatePreservesConcurrentClaim(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	consumer := seedConsumer(t, db)
	listing := seedListing(t, db, seedListingOpts{people: 10, provider: provider.ID})

	fired := claimDuringNextListingWrite(t, db, listing.ID, consumer.ID, 3)

	svc := NewListingService(db)
	name := "Masala Dosa"
	_, err := svc.Update(context.Background(), listing.ID, provider.ID, UpdateListingInput{FoodName: &name})
	require.NoError(t, err)
	require.True(t, *fired)

	// The claim's decrement must survive the listing edit.
	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, 7, reloaded.PeopleCount)
	assert.Equal(t, 10, reloaded.TotalCount)
	assert.Equal(t, "Masala Dosa", reloaded.FoodName)
}

func TestUpdateStatusPreservesConcurrentClaim(t *testing.T) {
	db := openTestDB(t)
	provider := seedProvider(t, db, "560001")
	consumer := seedConsumer(t, db)
	listing := seedListing(t, db, seedListingOpts{people: 10, provider: provider.ID})

	fired := claimDuringNextListingWrite(t, db, listing.ID, consumer.ID, 4)

	svc := NewListingService(db)
	_, err := svc.UpdateStatus(context.Background(), listing.ID, provider.ID, models.ListingStatusCancelled)
	require.NoError(t, err)
	require.True(t, *fired)

	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, 6, reloaded.PeopleCount)
	assert.Equal(t, models.ListingStatusCancelled, reloaded.Status)
}
