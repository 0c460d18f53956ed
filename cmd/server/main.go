package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/mobiway/pmr-assist/internal/booking"    // payload builder for the quote endpoint
	"github.com/mobiway/pmr-assist/internal/config"     // Internal config loader
	"github.com/mobiway/pmr-assist/internal/database"   // MySQL pool
	"github.com/mobiway/pmr-assist/internal/geo"        // geocoding and routing clients
	"github.com/mobiway/pmr-assist/internal/handler"    // HTTP handlers
	"github.com/mobiway/pmr-assist/internal/itinerary"  // journey search service
	"github.com/mobiway/pmr-assist/internal/middleware" // cache and rate limit middleware
	"github.com/mobiway/pmr-assist/internal/queue"      // background status-event consumer
	"github.com/mobiway/pmr-assist/internal/repository" // data access layer
	"github.com/mobiway/pmr-assist/internal/router"     // Internal router setup
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the response cache and the
	// rate limiter, and the server keeps running without them.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	reservations := repository.NewReservationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	reservationHandler := handler.NewReservationHandler(reservations)

	searchService := itinerary.NewService(
		geo.NewGeocoder(cfg.GeoBaseURL, cfg.GeoAPIKey),
		geo.NewDirectionsClient(cfg.GeoBaseURL, cfg.GeoAPIKey),
		geo.NewTransitClient(cfg.GeoBaseURL, cfg.GeoAPIKey),
	)
	builder := booking.NewBuilder()
	builder.Price = booking.FlatRate(cfg.RatePerMinute)
	itineraryHandler := handler.NewItineraryHandler(searchService, builder)

	// The consumer runs for the life of the process, appending every
	// reservation.status event to logs/reservation.log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)                                          // health check
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)                // auth endpoints
	router.RegisterItineraries(e, itineraryHandler, cfg.JWTSecret)    // journey search endpoints
	router.RegisterReservations(e, reservationHandler, cfg.JWTSecret) // reservation endpoints

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
