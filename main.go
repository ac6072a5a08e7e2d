package main

import (
	"log"

	api "quotepush-backend/cmd/api"
	authUsecase "quotepush-backend/internal/auth/usecase"
	bgDelivery "quotepush-backend/internal/background/delivery"
	bgdomain "quotepush-backend/internal/background/domain"
	bgRepo "quotepush-backend/internal/background/repository"
	"quotepush-backend/internal/blackout"
	quoteDelivery "quotepush-backend/internal/quote/delivery"
	quotedomain "quotepush-backend/internal/quote/domain"
	quoteRepo "quotepush-backend/internal/quote/repository"
	quoteUsecase "quotepush-backend/internal/quote/usecase"
	"quotepush-backend/internal/scheduler"
	subDelivery "quotepush-backend/internal/subscription/delivery"
	subdomain "quotepush-backend/internal/subscription/domain"
	subRepo "quotepush-backend/internal/subscription/repository"
	subUsecase "quotepush-backend/internal/subscription/usecase"
	"quotepush-backend/pkg/config"
	"quotepush-backend/pkg/database"
	"quotepush-backend/pkg/push"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&subdomain.User{},
		&subdomain.NotificationSlot{},
		&subdomain.DeviceRegistration{},
		&subdomain.CurrentQuoteEntry{},
		&quotedomain.Author{},
		&quotedomain.Quote{},
		&bgdomain.Background{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := subRepo.NewUserRepository(db)
	quoteRepository := quoteRepo.NewQuoteRepository(db)
	authorRepository := quoteRepo.NewAuthorRepository(db)
	backgroundRepository := bgRepo.NewBackgroundRepository(db)

	// Initialize push transport
	transport, err := push.NewTransport(cfg.PushProvider, cfg.ExpoPushURL, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize push transport:", err)
	}

	// Initialize blackout window provider
	blackoutProvider := blackout.NewProvider(cfg.BlackoutFeedURL)
	if cfg.BlackoutFeedURL == "" {
		log.Println("[Blackout] No feed configured, using fixed observance hours")
	}

	// Initialize use cases (dependency injection)
	identityUsecaseInstance := authUsecase.NewIdentityUsecase(cfg.GoogleClientIDs, cfg.AppleClientIDs)
	quoteUsecaseInstance := quoteUsecase.NewQuoteUsecase(quoteRepository, authorRepository)
	authorUsecaseInstance := quoteUsecase.NewAuthorUsecase(authorRepository)
	subscriptionUsecaseInstance := subUsecase.NewSubscriptionUsecase(userRepository, identityUsecaseInstance, cfg.MaxSlotsPerUser)

	// Start the delivery scheduler
	deliveryScheduler := scheduler.NewDeliveryScheduler(userRepository, quoteRepository, blackoutProvider, transport, cfg.SchedulerInterval)
	deliveryScheduler.Start()
	defer deliveryScheduler.Stop()

	// Initialize HTTP handlers
	quoteHandler := quoteDelivery.NewQuoteHandler(quoteUsecaseInstance, authorUsecaseInstance)
	backgroundHandler := bgDelivery.NewBackgroundHandler(backgroundRepository)
	subscriptionHandler := subDelivery.NewSubscriptionHandler(subscriptionUsecaseInstance)

	router := gin.Default()
	api.SetupRoutes(router, quoteHandler, backgroundHandler, subscriptionHandler, cfg.AdminPasswordHash)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
