package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/api"
	"petpulse-backend-go/internal/billing"
	"petpulse-backend-go/internal/config"
	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/db"
	"petpulse-backend-go/internal/middleware"
	"petpulse-backend-go/internal/models"
	"petpulse-backend-go/internal/worker"
	"petpulse-backend-go/pkg/cache"
	"petpulse-backend-go/pkg/mailer"
	"petpulse-backend-go/pkg/messagequeue"
)

func main() {
	// A missing .env is fine in deployed environments; config comes from
	// real environment variables there.
	_ = godotenv.Load()

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded")

	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized")

	firestoreClient := db.GetFirestoreClient()
	if firestoreClient == nil || db.GetFirebaseAuthClient() == nil {
		zapLogger.Fatal("Firebase clients are nil after initialization")
	}
	defer func() {
		if err := firestoreClient.Close(); err != nil {
			zapLogger.Error("Error closing Firestore client", zap.Error(err))
		}
	}()

	billing.Init(appConfig.StripeSecretKey)

	// Repositories.
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	petRepo := db.NewFirestorePetRepository(firestoreClient)
	healthRepo := db.NewFirestoreHealthRepository(firestoreClient)
	forumRepo := db.NewFirestoreForumRepository(firestoreClient)
	auditRepo := db.NewFirestoreAuditRepository(firestoreClient)

	// Optional infrastructure: Redis status cache and RabbitMQ reconcile queue.
	var statusCache cache.Cache
	if appConfig.RedisAddr != "" {
		statusCache, err = cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Warn("Redis unavailable, subscription status caching disabled", zap.Error(err))
			statusCache = nil
		}
	}

	var mq messagequeue.MessageQueue
	var notifier core.ReconciliationNotifier
	if appConfig.RabbitMQURL != "" {
		mq, err = messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL})
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable, reconciliation degrades to logging", zap.Error(err))
			mq = nil
		}
	}
	if mq != nil {
		notifier = worker.NewQueueNotifier(mq, appConfig.ReconcileQueue)
		defer mq.Close()
	} else {
		notifier = core.NewLoggingNotifier(zapLogger)
	}

	var appMailer core.Mailer
	if appConfig.SMTPUser != "" && appConfig.SMTPPass != "" && appConfig.MailSender != "" {
		m, err := mailer.New(mailer.Config{
			Username: appConfig.SMTPUser,
			Password: appConfig.SMTPPass,
			Sender:   appConfig.MailSender,
		})
		if err != nil {
			zapLogger.Warn("Mailer misconfigured, notification mail disabled", zap.Error(err))
		} else {
			appMailer = m
		}
	}

	// Services.
	planCatalog := models.NewPlanCatalog(appConfig.StripePriceIDMonthly, appConfig.StripePriceIDYearly)
	stripeProvider := billing.NewStripeProvider()

	auditService := core.NewAuditService(auditRepo, zapLogger)
	subscriptionService := core.NewSubscriptionService(
		userRepo, stripeProvider, planCatalog, notifier, appMailer, auditService,
		appConfig.TrialDays, zapLogger,
	)
	userService := core.NewUserService(userRepo, auditService, zapLogger)
	billingService := core.NewBillingService(
		userRepo, stripeProvider, notifier, appMailer, auditService,
		map[models.Plan]string{
			models.PlanMonthly: appConfig.StripePriceIDMonthly,
			models.PlanYearly:  appConfig.StripePriceIDYearly,
		},
		appConfig.StripeWebhookSecret, appConfig.ClientURL, zapLogger,
	)
	petService := core.NewPetService(petRepo, userRepo, healthRepo, subscriptionService, appConfig.FreePetCap, zapLogger)
	healthService := core.NewHealthService(healthRepo, petRepo, zapLogger)
	forumService := core.NewForumService(forumRepo, zapLogger)

	// The reconcile worker re-resolves subscriptions queued by webhooks and
	// stale-cache detection.
	if mq != nil {
		reconciler := worker.NewReconciler(mq, appConfig.ReconcileQueue, subscriptionService, zapLogger)
		if err := reconciler.Start(context.Background()); err != nil {
			zapLogger.Warn("Failed to start reconcile worker", zap.Error(err))
		}
	}

	if strings.ToLower(appConfig.GinMode) == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	api.SetupRoutes(
		router, appConfig, zapLogger,
		userService, subscriptionService, billingService,
		petService, healthService, forumService,
		statusCache,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Port),
		Handler: router,
	}

	go func() {
		zapLogger.Info("Starting server", zap.String("port", appConfig.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}
