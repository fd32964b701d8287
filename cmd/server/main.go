package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/chataubeskydy/booking-backend/internal/config"
	"github.com/chataubeskydy/booking-backend/internal/database"
	"github.com/chataubeskydy/booking-backend/internal/handlers"
	"github.com/chataubeskydy/booking-backend/internal/middleware"
	"github.com/chataubeskydy/booking-backend/internal/services"
	"github.com/chataubeskydy/booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Guesthouse Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	roomRepo := database.NewRoomRepository(db)
	commonRoomRepo := database.NewCommonRoomRepository(db)
	seasonRepo := database.NewSeasonRepository(db)
	roomBookingRepo := database.NewRoomBookingRepository(db)
	commonBookingRepo := database.NewCommonBookingRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	pricingService := services.NewPricingService(seasonRepo)
	availabilityService := services.NewAvailabilityService(roomBookingRepo)
	capacityService := services.NewCapacityService(commonBookingRepo)
	bookingService := services.NewBookingService(
		roomRepo,
		commonRoomRepo,
		roomBookingRepo,
		commonBookingRepo,
		availabilityService,
		capacityService,
		pricingService,
		logger,
	)
	occupancyService := services.NewOccupancyService(roomRepo, commonRoomRepo, roomBookingRepo, commonBookingRepo)
	expirationService := services.NewExpirationService(
		roomBookingRepo,
		commonBookingRepo,
		cfg.Booking.SweepInterval,
		cfg.Booking.PendingTimeout,
		logger,
	)
	cronService := services.NewCronService(roomBookingRepo, commonBookingRepo, cfg.Booking.Retention, logger)

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(roomRepo, logger)
	commonRoomHandler := handlers.NewCommonRoomHandler(commonRoomRepo, logger)
	seasonHandler := handlers.NewSeasonHandler(seasonRepo, logger)
	bookingHandler := handlers.NewBookingHandler(
		bookingService,
		pricingService,
		roomRepo,
		roomBookingRepo,
		commonBookingRepo,
		logger,
	)
	occupancyHandler := handlers.NewOccupancyHandler(occupancyService, logger)
	adminAuthHandler := handlers.NewAdminAuthHandler(cfg.Admin, jwtService, cfg.JWT.AccessTokenExpiry, logger)
	adminHandler := handlers.NewAdminHandler(
		bookingService,
		expirationService,
		cronService,
		roomBookingRepo,
		commonBookingRepo,
		logger,
	)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	{
		// Public catalog and calendar
		v1.GET("/rooms", roomHandler.ListRooms)
		v1.GET("/rooms/:id", roomHandler.GetRoom)
		v1.GET("/common-rooms", commonRoomHandler.ListCommonRooms)
		v1.GET("/seasons", seasonHandler.ListSeasons)
		v1.GET("/occupancy", occupancyHandler.GetOccupancy)
		v1.GET("/occupancy/half-day", occupancyHandler.GetHalfDayOccupancy)

		// Public booking flow
		v1.GET("/bookings/rooms", bookingHandler.ListRoomBookings)
		v1.GET("/bookings/common", bookingHandler.ListCommonBookings)
		v1.POST("/bookings/rooms", bookingHandler.CreateRoomBooking)
		v1.POST("/bookings/common", bookingHandler.CreateCommonBooking)
		v1.POST("/quote", bookingHandler.Quote)

		v1.POST("/admin/login", adminAuthHandler.Login)

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(jwtService))
		{
			// Lifecycle decisions
			admin.GET("/bookings/rooms", adminHandler.ListRoomBookings)
			admin.GET("/bookings/common", adminHandler.ListCommonBookings)
			admin.POST("/bookings/rooms/:id/confirm", adminHandler.ConfirmRoomBooking)
			admin.POST("/bookings/rooms/:id/reject", adminHandler.RejectRoomBooking)
			admin.POST("/bookings/rooms/:id/cancel", adminHandler.CancelRoomBooking)
			admin.POST("/bookings/common/:id/confirm", adminHandler.ConfirmCommonBooking)
			admin.POST("/bookings/common/:id/reject", adminHandler.RejectCommonBooking)
			admin.POST("/bookings/common/:id/cancel", adminHandler.CancelCommonBooking)

			// Blanket holds
			admin.POST("/block/rooms", adminHandler.BlockRooms)
			admin.POST("/block/common", adminHandler.BlockCommonRooms)

			// Catalog management
			admin.POST("/rooms", roomHandler.CreateRoom)
			admin.PUT("/rooms/:id", roomHandler.UpdateRoom)
			admin.DELETE("/rooms/:id", roomHandler.RetireRoom)
			admin.POST("/common-rooms", commonRoomHandler.CreateCommonRoom)
			admin.PUT("/common-rooms/:id", commonRoomHandler.UpdateCommonRoom)
			admin.DELETE("/common-rooms/:id", commonRoomHandler.RetireCommonRoom)
			admin.POST("/seasons", seasonHandler.CreateSeason)
			admin.PUT("/seasons/:id", seasonHandler.UpdateSeason)
			admin.DELETE("/seasons/:id", seasonHandler.DeleteSeason)

			// Background jobs
			admin.GET("/sweep", adminHandler.SweepStatus)
			admin.POST("/sweep/run", adminHandler.RunSweep)
			admin.POST("/retention/run", adminHandler.RunRetention)
		}
	}

	// Start background jobs
	expirationService.Start()
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	expirationService.Stop()
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
		}

		if len(c.Errors) > 0 {
			logger.WithFields(fields).Error(c.Errors.String())
			return
		}
		logger.WithFields(fields).Info("Request completed")
	}
}

// healthCheckHandler reports server and database health
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		dbStatus := "connected"
		code := http.StatusOK

		if err := db.Ping(); err != nil {
			status = "unhealthy"
			dbStatus = "disconnected"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
