package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook/config"
	"salonbook/cron"
	"salonbook/database"
	"salonbook/database/repository"
	"salonbook/handlers"
	"salonbook/routes"
	"salonbook/services/admin"
	"salonbook/services/auth"
	"salonbook/services/booking"
	"salonbook/services/notification"
	"salonbook/services/payment"
	"salonbook/services/promo"
	"salonbook/services/salon"
	"salonbook/services/storage"
	"salonbook/services/tasks"
	"salonbook/services/wallet"
	"salonbook/services/wizard"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	database.InitDB()
	sessionCache := utils.GetSessionClient()
	authCache := utils.GetAuthCacheClient()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey
	currency := config.AppConfig.Currency

	// repositories.
	repos := repository.New(database.DB(), logger)
	settingsCache := admin.NewSettingsCache(repos.Settings, time.Minute)

	// collaborators.
	gateway := payment.NewStripeGateway(logger, config.PaymentTimeout())

	var images storage.ImageStore
	if cld, err := utils.Cloudinary(); err != nil {
		logger.Warn("main: cloudinary unavailable, salon galleries disabled", zap.Error(err))
	} else {
		images = storage.NewCloudinaryImageStore(cld)
	}

	var sender notification.Sender
	if utils.FCMClient != nil {
		sender = utils.FCMClient
	}
	notifier := notification.NewNotificationService(repos.Users, repos.Owners, sender, logger)

	queueClient := asynq.NewClient(utils.QueueRedisOpt())
	defer queueClient.Close()
	queue := tasks.NewQueue(queueClient, logger)

	// services.
	authService := auth.NewAuthService(
		repos.Users,
		repos.Owners,
		settingsCache,
		&auth.RedisRevocations{Client: authCache},
		time.Duration(config.AppConfig.JWTTTLHours)*time.Hour,
		config.AppConfig.AdminBootstrapEmail,
		currency,
		logger,
	)
	salonService := salon.NewSalonService(repos.Salons, repos.Owners, repos.Bookings, settingsCache, images, logger)
	adminService := admin.NewAdminService(repos.Settings, settingsCache, repos.Users, repos.Owners, logger)
	walletService := wallet.NewWalletService(repos.Wallets, repos.Wallets, gateway, currency, logger)
	sessionService := wizard.NewSessionService(
		wizard.NewRedisSessionStore(sessionCache),
		repos.Salons,
		repos.Bookings,
		config.WizardSessionTTL(),
		logger,
	)
	promos := promo.DefaultRegistry()

	bookingService := booking.NewBookingService(
		booking.Stores{
			Bookings:    repos.Bookings,
			Settlements: repos.Settlements,
			Refunds:     repos.Refunds,
			Users:       repos.Users,
			Salons:      repos.Salons,
			Settings:    settingsCache,
		},
		sessionService,
		walletService,
		gateway,
		promos,
		notifier,
		queue,
		currency,
		config.AppConfig.PromoEnforceExpiry,
		logger,
	)

	// background tasks.
	worker, err := cron.StartWorker(&tasks.Handlers{
		Processor: bookingService,
		Bookings:  repos.Bookings,
		Notifier:  notifier,
		Intents:   repos.Settlements,
		Refunds:   repos.Refunds,
		Wallet:    walletService,
		Recharges: repos.Wallets,
		Queue:     queue,
		Logger:    logger,
	}, logger)
	if err != nil {
		logger.Fatal("main: failed to start task worker", zap.Error(err))
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	utils.StartHealthMonitor(healthCtx, 30*time.Second, map[string]*redis.Client{
		"session": sessionCache,
		"auth":    authCache,
	}, database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Authenticator: authService,
		Settings:      settingsCache,
		RatePerMinute: config.AppConfig.MaxRequestsPerMin,

		Auth:     handlers.NewAuthHandler(authService),
		Salons:   handlers.NewSalonHandler(salonService),
		Booking:  handlers.NewBookingHandler(sessionService, bookingService, promos),
		Wallet:   handlers.NewWalletHandler(walletService, currency),
		Owner:    handlers.NewOwnerHandler(salonService, bookingService),
		Admin:    handlers.NewAdminHandler(adminService, salonService, bookingService),
		Payments: handlers.NewPaymentHandler(bookingService, walletService, config.AppConfig.StripeWebhookSecret),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

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
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
