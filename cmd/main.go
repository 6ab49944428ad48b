package main

import (
	"log"
	"os"

	"github.com/ShounakM04/Rescue-Bites/config"
	"github.com/ShounakM04/Rescue-Bites/controllers"
	"github.com/ShounakM04/Rescue-Bites/routes"
	"github.com/ShounakM04/Rescue-Bites/services"
	"github.com/ShounakM04/Rescue-Bites/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	utils.InitMailer()

	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Fatalf("push service init failed: %v", err)
	}
	services.InitAlertDeps(config.DB, hub, push)

	r := routes.SetupRouter(routes.Controllers{
		Auth:     controllers.NewAuthController(services.NewAuthService(config.DB)),
		Listings: controllers.NewListingController(services.NewListingService(config.DB)),
		Bookings: controllers.NewBookingController(services.NewBookingService(config.DB)),
		Metrics:  controllers.NewMetricsController(services.NewMetricsService(config.DB)),
		Realtime: controllers.NewRealtimeController(hub),
		Devices:  controllers.NewDeviceController(push),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
