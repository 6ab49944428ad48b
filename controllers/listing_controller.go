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

// ListingService is what the listing endpoints need from the service layer.
type ListingService interface {
	Create(ctx context.Context, providerID uint, in services.CreateListingInput) (*models.Listing, error)
	ListPaged(ctx context.Context, page, limit int, pincode string) (*services.PagedListings, error)
	Nearby(ctx context.Context, longitude, latitude, maxDistance float64, pincode string) ([]services.NearbyListing, error)
	Search(ctx context.Context, q string) ([]models.Listing, error)
	Popular(ctx context.Context, limit int) ([]models.Listing, error)
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	UpdateStatus(ctx context.Context, id, providerID uint, status string) (*models.Listing, error)
	Update(ctx context.Context, id, providerID uint, in services.UpdateListingInput) (*models.Listing, error)
	Delete(ctx context.Context, id, providerID uint) error
}

type ListingController struct {
	Svc ListingService
}

func NewListingController(svc ListingService) *ListingController {
	return &ListingController{Svc: svc}
}

// POST /listings
func (lc *ListingController) CreateListing(c *gin.Context) {
	providerID, ok := accountIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	var input services.CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	listing, err := lc.Svc.Create(c.Request.Context(), providerID, input)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": listing})
}

// GET /listings?page&limit&pincode
func (lc *ListingController) GetListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	pincode := c.Query("pincode")

	paged, err := lc.Svc.ListPaged(c.Request.Context(), page, limit, pincode)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(paged.Listings),
		"data":    paged.Listings,
		"pagination": gin.H{
			"page":  paged.Page,
			"limit": paged.Limit,
			"total": paged.Total,
			"pages": paged.Pages,
		},
	})
}

// GET /listings/nearby?longitude&latitude&maxDistance&pincode
func (lc *ListingController) GetNearbyListings(c *gin.Context) {
	lonStr := c.Query("longitude")
	latStr := c.Query("latitude")
	if lonStr == "" || latStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please provide longitude and latitude parameters"})
		return
	}

	longitude, err1 := strconv.ParseFloat(lonStr, 64)
	latitude, err2 := strconv.ParseFloat(latStr, 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "longitude and latitude must be numbers"})
		return
	}

	maxDistance, _ := strconv.ParseFloat(c.DefaultQuery("maxDistance", "5000"), 64)
	pincode := c.Query("pincode")

	listings, err := lc.Svc.Nearby(c.Request.Context(), longitude, latitude, maxDistance, pincode)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(listings), "data": listings})
}

// GET /listings/search?q
func (lc *ListingController) SearchListings(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please provide a search query"})
		return
	}

	results, err := lc.Svc.Search(c.Request.Context(), q)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(results), "data": results})
}

// GET /listings/popular?limit
func (lc *ListingController) GetPopularListings(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	popular, err := lc.Svc.Popular(c.Request.Context(), limit)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(popular), "data": popular})
}

// GET /listings/:id
func (lc *ListingController) GetListingByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid listing ID format"})
		return
	}

	listing, err := lc.Svc.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": listing})
}

type UpdateListingStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /listings/:id/status
func (lc *ListingController) UpdateListingStatus(c *gin.Context) {
	providerID, ok := accountIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid listing ID format"})
		return
	}

	var input UpdateListingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status value"})
		return
	}

	listing, err := lc.Svc.UpdateStatus(c.Request.Context(), uint(id), providerID, input.Status)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": listing})
}

// PUT /listings/:id
func (lc *ListingController) UpdateListing(c *gin.Context) {
	providerID, ok := accountIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid listing ID format"})
		return
	}

	var input services.UpdateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	listing, err := lc.Svc.Update(c.Request.Context(), uint(id), providerID, input)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": listing})
}

// DELETE /listings/:id
func (lc *ListingController) DeleteListing(c *gin.Context) {
	providerID, ok := accountIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid listing ID format"})
		return
	}

	if err := lc.Svc.Delete(c.Request.Context(), uint(id), providerID); err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

func respondListingError(c *gin.Context, err error) {
	var valErr *services.ValidationError
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": valErr.Error()})
	case errors.Is(err, services.ErrListingNotFound), errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": services.ErrListingNotFound.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
