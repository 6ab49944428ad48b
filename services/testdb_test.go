package services

import (
	"os"
	"testing"
	"time"

	"github.com/ShounakM04/Rescue-Bites/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and starts
// from empty tables. Tests that need a real store skip when the variable is
// unset, so the rest of the suite runs anywhere.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database-backed test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Provider{},
		&models.Consumer{},
		&models.Listing{},
		&models.Booking{},
		&models.Alert{},
		&models.ProviderDevice{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db.Exec("TRUNCATE providers, consumers, listings, bookings, alerts, provider_devices RESTART IDENTITY CASCADE")
	return db
}

func seedProvider(t *testing.T, db *gorm.DB, pincode string) *models.Provider {
	t.Helper()
	p := &models.Provider{
		Name:         "Tandoor House",
		Address:      "12 MG Road",
		MobileNumber: "98" + pincode + time.Now().Format("0405.000000"),
		Email:        time.Now().Format("p150405.000000") + pincode + "@example.com",
		Pincode:      pincode,
		Password:     "x",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	return p
}

func seedConsumer(t *testing.T, db *gorm.DB) *models.Consumer {
	t.Helper()
	c := &models.Consumer{
		Name:         "Asha",
		MobileNumber: "91" + time.Now().Format("0405.000000"),
		Email:        "asha@example.com",
		Pincode:      "560001",
		Password:     "x",
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed consumer: %v", err)
	}
	return c
}

type seedListingOpts struct {
	food       string
	restaurant string
	people     int
	provider   uint
	lon, lat   float64
	views      int
	expires    time.Time
	status     string
}

func seedListing(t *testing.T, db *gorm.DB, opts seedListingOpts) *models.Listing {
	t.Helper()
	if opts.food == "" {
		opts.food = "Veg Thali"
	}
	if opts.restaurant == "" {
		opts.restaurant = "Tandoor House"
	}
	if opts.expires.IsZero() {
		opts.expires = time.Now().Add(2 * time.Hour)
	}
	if opts.status == "" {
		opts.status = models.ListingStatusActive
	}

	l := &models.Listing{
		RestaurantName: opts.restaurant,
		FoodName:       opts.food,
		Veg:            true,
		TotalCount:     opts.people,
		PeopleCount:    opts.people,
		ProviderID:     opts.provider,
		ListedAt:       time.Now(),
		ExpirationTime: opts.expires,
		Status:         opts.status,
		Longitude:      opts.lon,
		Latitude:       opts.lat,
		ViewCount:      opts.views,
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return l
}
