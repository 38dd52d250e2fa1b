package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/config"
	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/db"
	"petpulse-backend-go/internal/middleware"
	"petpulse-backend-go/pkg/cache"
)

// SetupRoutes wires all application routes. Global middleware (logging,
// recovery, CORS) is applied to the router before this is called.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	subscriptionService core.SubscriptionService,
	billingService core.BillingService,
	petService core.PetService,
	healthService core.HealthService,
	forumService core.ForumService,
	statusCache cache.Cache,
) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("Firebase Auth client is not initialized; cannot secure routes")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, logger)

	authHandler := NewAuthHandler(userService)
	userHandler := NewUserHandler(userService)
	subscriptionHandler := NewSubscriptionHandler(
		subscriptionService,
		statusCache,
		time.Duration(appConfig.StatusCacheSeconds)*time.Second,
		logger,
	)
	billingHandler := NewBillingHandler(billingService, logger)
	petHandler := NewPetHandler(petService)
	healthHandler := NewHealthRecordHandler(healthService)
	forumHandler := NewForumHandler(forumService, userService)
	adminHandler := NewAdminHandler(userService)

	apiV1 := router.Group("/api/v1")
	{
		usersGroup := apiV1.Group("/users", authMW.VerifyToken())
		{
			// Called after client-side Firebase sign-in so a backend profile exists.
			usersGroup.POST("/initialize", authHandler.InitializeUserProfile)
			usersGroup.GET("/me", userHandler.GetCurrentUserProfile)
			usersGroup.PUT("/me", userHandler.UpdateCurrentUserProfile)
		}

		subscriptionGroup := apiV1.Group("/subscription", authMW.VerifyToken())
		{
			subscriptionGroup.GET("/status", subscriptionHandler.GetStatus)
			subscriptionGroup.POST("/trial", subscriptionHandler.StartTrial)
			subscriptionGroup.DELETE("/trial", subscriptionHandler.CancelTrial)
		}

		petsGroup := apiV1.Group("/pets", authMW.VerifyToken())
		{
			petsGroup.POST("", petHandler.CreatePet)
			petsGroup.GET("", petHandler.ListPets)
			petsGroup.GET("/:petId", petHandler.GetPet)
			petsGroup.PUT("/:petId", petHandler.UpdatePet)
			petsGroup.DELETE("/:petId", petHandler.DeletePet)

			petsGroup.POST("/:petId/share", petHandler.ShareWithVet)
			petsGroup.DELETE("/:petId/share/:vetId", petHandler.RemoveVetShare)

			petsGroup.POST("/:petId/records", healthHandler.AddRecord)
			petsGroup.GET("/:petId/records", healthHandler.ListRecords)
			petsGroup.DELETE("/:petId/records/:recordId", healthHandler.DeleteRecord)

			// Full-history export is a premium feature.
			petsGroup.GET("/:petId/records/export",
				middleware.RequirePremium(subscriptionService, logger),
				healthHandler.ExportRecords)
		}

		// The veterinarian's view of pets shared with them.
		apiV1.GET("/vet/pets", authMW.VerifyToken(), petHandler.ListSharedPets)

		forumGroup := apiV1.Group("/forum", authMW.VerifyToken())
		{
			forumGroup.POST("/posts", forumHandler.CreatePost)
			forumGroup.GET("/posts", forumHandler.ListPosts)
			forumGroup.GET("/posts/:postId", forumHandler.GetPost)
			forumGroup.DELETE("/posts/:postId", forumHandler.DeletePost)
			forumGroup.POST("/posts/:postId/replies", forumHandler.CreateReply)
		}

		billingGroup := apiV1.Group("/billing")
		{
			billingGroup.POST("/create-checkout-session", authMW.VerifyToken(), billingHandler.CreateCheckoutSession)
			billingGroup.POST("/create-portal-session", authMW.VerifyToken(), billingHandler.CreatePortalSession)

			// Public: Stripe authenticates via the signature header.
			billingGroup.POST("/webhooks/stripe", billingHandler.HandleStripeWebhook)
		}

		adminGroup := apiV1.Group("/admin", authMW.VerifyToken())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PUT("/users/:userId/premium", adminHandler.SetPremiumGrant)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
