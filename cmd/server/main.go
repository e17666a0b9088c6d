package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/space-rental/internal/booking"    // booking policy defaults
	"github.com/iliyamo/space-rental/internal/config"     // Internal config loader
	"github.com/iliyamo/space-rental/internal/database"   // MySQL connection pool
	"github.com/iliyamo/space-rental/internal/handler"    // HTTP handlers
	"github.com/iliyamo/space-rental/internal/middleware" // rate limiting and response cache
	"github.com/iliyamo/space-rental/internal/queue"      // booking event consumer
	"github.com/iliyamo/space-rental/internal/repository" // data access layer
	"github.com/iliyamo/space-rental/internal/router"     // route registration
	queue_publisher "github.com/iliyamo/space-rental/internal/service"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the response cache.  A nil client
	// disables both and the API keeps working.
	rdb := config.NewRedisClient()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	notifications := repository.NewNotificationRepo(db)
	messages := repository.NewMessageRepo(db)
	categories := repository.NewCategoryRepo(db)
	amenities := repository.NewAmenityRepo(db)

	notifier := queue_publisher.NewNotifier(notifications)

	// Booking policy: library defaults plus configured business hours.
	policy := booking.DefaultPolicy()
	policy.OpenHour = cfg.OpenHour
	policy.CloseHour = cfg.CloseHour

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(properties, bookings, reviews, categories, amenities)
	tenantH := handler.NewTenantHandler(properties, bookings, reviews, favorites, notifier, policy)
	landlordH := handler.NewLandlordHandler(properties, amenities)
	landlordBkH := handler.NewLandlordBookingHandler(bookings, notifier)
	inboxH := handler.NewInboxHandler(notifications, messages, users, notifier)
	adminH := handler.NewAdminHandler(users, properties, bookings, reviews)

	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH)
	router.RegisterTenant(e, tenantH, cfg.JWTSecret)
	router.RegisterLandlord(e, landlordH, landlordBkH, cfg.JWTSecret)
	router.RegisterInbox(e, inboxH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Consume booking lifecycle events in the background; the consumer
	// reconnects on broker failures and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
