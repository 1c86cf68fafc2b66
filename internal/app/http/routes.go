package routes

import (
	"net/http"

	adminapi "fitcoach-app/internal/api/admin"
	"fitcoach-app/internal/api/billing"
	plansapi "fitcoach-app/internal/api/plans"
	stripewebhooks "fitcoach-app/internal/api/stripewebhook"
	"fitcoach-app/internal/api/subscription"
	"fitcoach-app/internal/api/workouts"
	"fitcoach-app/internal/app/http/middleware"
	"fitcoach-app/internal/domain/profiles"
	"fitcoach-app/internal/infra/identity"
	"fitcoach-app/internal/infra/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps carries everything the route table hands to handlers.
type Deps struct {
	Logger   *zap.Logger
	Verifier identity.Verifier
	Store    profiles.Store

	Webhook      *stripewebhooks.Handler
	Subscription *subscription.Handler
	Billing      *billing.Handler
	Plans        *plansapi.Handler
	Workouts     *workouts.Handler
	Admin        *adminapi.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// The webhook needs the raw body for signature verification, so it
	// stays outside the sanitize middleware.
	r.POST("/api/webhook", d.Webhook.StripeWebhook)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	public := r.Group("/api")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.GET("/plans", d.Plans.ListPlans)
	public.GET("/check-subscription", d.Subscription.CheckSubscription)

	// Authenticated
	auth := r.Group("/api")
	auth.Use(middleware.AuthMiddleware(d.Verifier, d.Logger), middleware.SanitizeAndCleanInputMiddleware())
	auth.POST("/checkout", d.Billing.CreateCheckoutSession)
	auth.GET("/profile", d.Billing.GetProfile)
	auth.GET("/profile/subscription-status", d.Billing.GetSubscriptionStatus)
	auth.POST("/profile/change-plan", d.Billing.ChangePlan)
	auth.POST("/profile/unsubscribe", d.Billing.Unsubscribe)

	// Subscribed users
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription(d.Store, d.Logger))
	subscribed.POST("/generate-workoutplan", d.Workouts.GenerateWorkoutPlan)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.Verifier, d.Logger), middleware.RequireRole("admin"))
	admin.GET("/profiles", d.Admin.ListProfiles)
	admin.GET("/profile/:id", d.Admin.GetProfileDetails)
	admin.GET("/stats", d.Admin.GetStats)
}
