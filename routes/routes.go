package routes

import (
	"github.com/ShounakM04/Rescue-Bites/controllers"
	"github.com/ShounakM04/Rescue-Bites/middlewares"
	"github.com/ShounakM04/Rescue-Bites/utils"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth     *controllers.AuthController
	Listings *controllers.ListingController
	Bookings *controllers.BookingController
	Metrics  *controllers.MetricsController
	Realtime *controllers.RealtimeController
	Devices  *controllers.DeviceController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	provider := r.Group("/provider")
	{
		provider.POST("/register", ctl.Auth.RegisterProvider)
		provider.POST("/login", ctl.Auth.LoginProvider)
	}
	consumer := r.Group("/consumer")
	{
		consumer.POST("/register", ctl.Auth.RegisterConsumer)
		consumer.POST("/login", ctl.Auth.LoginConsumer)
	}

	auth := middlewares.AuthMiddleware()
	providerOnly := middlewares.RequireRole(utils.RoleProvider)
	consumerOnly := middlewares.RequireRole(utils.RoleConsumer)

	listings := r.Group("/listings")
	listings.Use(auth)
	{
		listings.POST("", providerOnly, ctl.Listings.CreateListing)
		listings.GET("", ctl.Listings.GetListings)
		listings.GET("/nearby", ctl.Listings.GetNearbyListings)
		listings.GET("/search", ctl.Listings.SearchListings)
		listings.GET("/popular", ctl.Listings.GetPopularListings)
		listings.GET("/metrics", providerOnly, ctl.Metrics.GetProviderMetrics)
		listings.GET("/:id", ctl.Listings.GetListingByID)
		listings.PATCH("/:id/status", providerOnly, ctl.Listings.UpdateListingStatus)
		listings.PUT("/:id", providerOnly, ctl.Listings.UpdateListing)
		listings.DELETE("/:id", providerOnly, ctl.Listings.DeleteListing)
	}

	booking := r.Group("/booking")
	booking.Use(auth)
	{
		booking.POST("", consumerOnly, ctl.Bookings.CreateBooking)
		booking.GET("", consumerOnly, ctl.Bookings.GetConsumerBookings)
		booking.PATCH("/:id/status", providerOnly, ctl.Bookings.UpdateBookingStatus)
	}

	r.POST("/upload", auth, providerOnly, controllers.UploadListingImage)
	r.POST("/devices", auth, providerOnly, ctl.Devices.RegisterDevice)
	r.GET("/ws/alerts", auth, providerOnly, ctl.Realtime.AlertsWS)

	return r
}
