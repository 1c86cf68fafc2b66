package main

import (
	"context"
	"time"

	"fitcoach-app/config"
	"fitcoach-app/database"
	adminapi "fitcoach-app/internal/api/admin"
	"fitcoach-app/internal/api/billing"
	plansapi "fitcoach-app/internal/api/plans"
	stripewebhooks "fitcoach-app/internal/api/stripewebhook"
	"fitcoach-app/internal/api/subscription"
	"fitcoach-app/internal/api/workouts"
	routes "fitcoach-app/internal/app/http"
	"fitcoach-app/internal/app/http/middleware"
	"fitcoach-app/internal/domain/plans"
	"fitcoach-app/internal/domain/profiles"
	"fitcoach-app/internal/domain/webhookevents"
	"fitcoach-app/internal/infra/identity"
	"fitcoach-app/internal/infra/llm"
	"fitcoach-app/internal/infra/logger"
	stripeinfra "fitcoach-app/internal/infra/stripe"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()

	log := logger.New(config.LOG_LEVEL, config.LOG_FORMAT)
	defer func() { _ = log.Sync() }()

	database.InitDB(log)

	verifier := newIdentityVerifier(log)
	store := profiles.NewGormStore(database.DB, config.WEBHOOK_ORDERING_GUARD)
	ledger := webhookevents.NewGormLedger(database.DB)
	catalog := plans.NewCatalog(config.STRIPE_PRICE_WEEKLY, config.STRIPE_PRICE_MONTHLY, config.STRIPE_PRICE_YEARLY)
	provider := stripeinfra.NewProvider(config.STRIPE_SECRET_KEY, nil)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// CORS goes in before the routes are registered.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Logger:       log,
		Verifier:     verifier,
		Store:        store,
		Webhook:      stripewebhooks.NewHandler(stripewebhooks.NewVerifier(config.STRIPE_WEBHOOK_SECRET), store, ledger, log),
		Subscription: subscription.NewHandler(store, log),
		Billing:      billing.NewHandler(provider, store, catalog, config.APP_URL, log),
		Plans:        plansapi.NewHandler(catalog),
		Workouts:     workouts.NewHandler(llm.NewClient(config.LLM_API_KEY, config.LLM_BASE_URL, config.LLM_MODEL), log),
		Admin:        adminapi.NewHandler(store, log),
	})

	log.Info("listening", zap.String("port", config.PORT), zap.Bool("ordering_guard", config.WEBHOOK_ORDERING_GUARD))
	if err := r.Run(":" + config.PORT); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newIdentityVerifier(log *zap.Logger) identity.Verifier {
	if config.OIDC_ISSUER == "" {
		log.Info("using HMAC token verification")
		return identity.NewHMACVerifier(config.JWT_SECRET)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	v, err := identity.NewOIDCVerifier(ctx, config.OIDC_ISSUER, config.OIDC_CLIENT_ID)
	if err != nil {
		log.Fatal("identity provider discovery failed", zap.String("issuer", config.OIDC_ISSUER), zap.Error(err))
	}
	log.Info("using OIDC token verification", zap.String("issuer", config.OIDC_ISSUER))
	return v
}
