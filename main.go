// File: tapstead/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tapstead/config"
	"tapstead/cron"
	"tapstead/database"
	bookingRepoPkg "tapstead/database/repository/booking"
	performanceRepoPkg "tapstead/database/repository/performance"
	providerRepoPkg "tapstead/database/repository/provider"
	trackingRepoPkg "tapstead/database/repository/tracking"
	"tapstead/handlers"
	"tapstead/middleware"
	"tapstead/routes"
	bookingSvc "tapstead/services/booking"
	"tapstead/services/calendar"
	"tapstead/services/matching"
	"tapstead/services/notification"
	"tapstead/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	db := database.DB()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	provRepo := providerRepoPkg.NewMongoProviderRepo(db)
	bookRepo := bookingRepoPkg.NewMongoBookingRepo(db)
	trackRepo := trackingRepoPkg.NewMongoTrackingRepo(db)
	perfRepo := performanceRepoPkg.NewMongoPerformanceRepo(db)

	if err := providerRepoPkg.EnsureIndexes(db); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure provider indexes: %v", err)
	}

	// services.
	calClient := calendar.NewCalcomClient(
		config.AppConfig.CalAPIBaseURL,
		config.AppConfig.CalAPIKey,
		logger,
	)

	matchingService := &matching.DefaultMatchingService{
		ProviderRepo: provRepo,
		Calendar:     calClient,
		Cfg: matching.Config{
			DefaultSearchRadiusMi: config.AppConfig.DefaultSearchRadiusMi,
			DefaultMinRating:      config.AppConfig.DefaultMinRating,
			Urgency: matching.UrgencyTable{
				Urgent:    config.AppConfig.UrgentMultiplier,
				Emergency: config.AppConfig.EmergencyMultiplier,
			},
			SlotWidth:           time.Duration(config.AppConfig.SlotWidthHrs * float64(time.Hour)),
			AvailabilityTimeout: time.Duration(config.AppConfig.AvailabilityTimeoutSec) * time.Second,
			TimeZone:            config.AppConfig.CalTimeZone,
		},
		Logger: logger,
	}

	notificationService := &notification.LogNotificationService{Logger: logger}

	bookingService := &bookingSvc.DefaultBookingService{
		BookingRepo:     bookRepo,
		ProviderRepo:    provRepo,
		PerformanceRepo: perfRepo,
		TrackingRepo:    trackRepo,
		Calendar:        calClient,
		NotificationSvc: notificationService,
		Cfg: bookingSvc.Config{
			DefaultJobDurationHrs: config.AppConfig.DefaultJobDurationHrs,
			SlotWidth:             time.Duration(config.AppConfig.SlotWidthHrs * float64(time.Hour)),
			TimeZone:              config.AppConfig.CalTimeZone,
		},
		Logger: logger,
	}

	cacheClient := utils.GetMatchCacheClient()
	matchHandler := handlers.NewMatchHandler(matchingService, cacheClient, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, bookRepo, trackRepo, cacheClient,
		config.AppConfig.SlotWidthHrs, logger)

	routes.RegisterRoutes(router, matchHandler, bookingHandler)

	// Background reconciliation of bookings stranded mid-commit.
	cron.InitReconcileWorker(&cron.Reconciler{
		Bookings: bookRepo,
		Tracking: trackRepo,
		Logger:   logger,
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
