package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caterbook/config"
	"caterbook/cron"
	"caterbook/database"
	availabilityRepoPkg "caterbook/database/repository/availability"
	bookingRepoPkg "caterbook/database/repository/booking"
	catalogRepoPkg "caterbook/database/repository/catalog"
	quotationRepoPkg "caterbook/database/repository/quotation"
	verificationRepoPkg "caterbook/database/repository/verification"
	"caterbook/handlers"
	"caterbook/middleware"
	"caterbook/routes"
	availabilitySvc "caterbook/services/availability"
	bookingSvc "caterbook/services/booking"
	"caterbook/services/notification"
	quotationSvc "caterbook/services/quotation"
	verificationSvc "caterbook/services/verification"
	"caterbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitDraftCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	quotationRepo := quotationRepoPkg.NewMongoQuotationRepo()
	verificationRepo := verificationRepoPkg.NewMongoVerificationRepo()
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndexes()
	if err := bookingRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}
	if err := quotationRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create quotation indexes: %v", err)
	}
	if err := verificationRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create verification indexes: %v", err)
	}

	// Task queue client for out-of-band verification work.
	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer taskClient.Close()

	// Services.
	availabilityService := &availabilitySvc.DefaultAvailabilityService{
		Repo:    availabilityRepo,
		Catalog: catalogRepo,
	}
	verificationGate := &verificationSvc.DefaultVerificationGate{
		Repo:       verificationRepo,
		Bookings:   bookingRepo,
		Oracle:     &verificationSvc.MockIdentityOracle{},
		TaskClient: taskClient,
	}
	quotationService := quotationSvc.NewDefaultQuotationService(quotationRepo, bookingRepo, catalogRepo)
	bookingService := bookingSvc.NewDefaultBookingService(
		bookingRepo,
		quotationRepo,
		catalogRepo,
		availabilityService,
		verificationGate,
		bookingSvc.NewRedisDraftStore(),
		notification.NewLogNotifier(),
	)

	handlers.BookingService = bookingService
	handlers.QuotationService = quotationService
	handlers.AvailabilityService = availabilityService
	handlers.VerificationGate = verificationGate

	// Background worker: face matches and reservation sweeps.
	cron.InitEngineWorker(bookingService, verificationGate)

	// Register routes.
	routes.RegisterHealthRoute(router)
	routes.RegisterBookingRoutes(router)
	routes.RegisterVerificationRoutes(router)
	routes.RegisterAvailabilityRoutes(router)
	routes.RegisterAdminRoutes(router)
	routes.RegisterWebhookRoutes(router)

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
