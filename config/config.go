package config

import (
	"fmt"
	"log"
	"os"

	"github.com/ShounakM04/Rescue-Bites/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Provider{},
		&models.Consumer{},
		&models.Listing{},
		&models.Booking{},
		&models.Alert{},
		&models.ProviderDevice{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Discovery relies on a full-text index over food and restaurant names.
	// AutoMigrate cannot express it, so it is created here.
	DB.Exec(`CREATE INDEX IF NOT EXISTS idx_listings_fts ON listings
		USING gin (to_tsvector('english', food_name || ' ' || restaurant_name))`)
}
