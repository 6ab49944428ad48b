package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ShounakM04/Rescue-Bites/models"
	"github.com/ShounakM04/Rescue-Bites/services"

	"github.com/gin-gonic/gin"
)

// BookingService is what the booking endpoints need from the service layer.
type BookingService interface {
	CreateBooking(ctx context.Context, listingID, consumerID uint, peopleBooked int) (*models.Booking, *models.Listing, error)
	BookingsByConsumer(ctx context.Context, consumerID uint) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID, providerID uint, status string) (*models.Booking, error)
}

type BookingController struct {
	Svc BookingService
}

func NewBookingController(svc BookingService) *BookingController {
	return &BookingController{Svc: svc}
}

type CreateBookingInput struct {
	FoodListingID string `json:"food_listing_id" binding:"required"`
	PeopleBooked  int    `json:"people_booked" binding:"required,min=1"`
}

// POST /booking
func (bc *BookingController) CreateBooking(c *gin.Context) {
	consumerID, ok := accountIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid booking request"})
		return
	}

	listingID, err := strconv.ParseUint(input.FoodListingID, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid food listing ID format"})
		return
	}

	booking, listing, err := bc.Svc.CreateBooking(c.Request.Context(), uint(listingID), consumerID, input.PeopleBooked)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"booking":        booking,
			"updatedListing": listing,
		},
	})
}

// GET /booking
func (bc *BookingController) GetConsumerBookings(c *gin.Context) {
	consumerID, ok := accountIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	bookings, err := bc.Svc.BookingsByConsumer(c.Request.Context(), consumerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch bookings. Please try again later."})
		return
	}
	if len(bookings) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No bookings found for this consumer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": bookings})
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /booking/:id/status
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	providerID, ok := accountIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid booking ID format"})
		return
	}

	var input UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status value"})
		return
	}

	booking, err := bc.Svc.UpdateBookingStatus(c.Request.Context(), uint(bookingID), providerID, input.Status)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func respondBookingError(c *gin.Context, err error) {
	var capErr *services.CapacityError
	var valErr *services.ValidationError
	switch {
	case errors.As(err, &capErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     capErr.Error(),
			"remaining": capErr.Remaining,
		})
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": valErr.Error()})
	case errors.Is(err, services.ErrListingNotAvailable):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

// --- helpers ---

func accountIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("accountID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}
