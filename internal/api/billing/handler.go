package billing

import (
	"net/http"
	"time"

	"fitcoach-app/internal/app/http/middleware"
	"fitcoach-app/internal/domain/access"
	"fitcoach-app/internal/domain/plans"
	"fitcoach-app/internal/domain/profiles"
	stripeinfra "fitcoach-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	provider stripeinfra.Provider
	store    profiles.Store
	catalog  *plans.Catalog
	appURL   string
	logger   *zap.Logger
}

func NewHandler(provider stripeinfra.Provider, store profiles.Store, catalog *plans.Catalog, appURL string, log *zap.Logger) *Handler {
	return &Handler{
		provider: provider,
		store:    store,
		catalog:  catalog,
		appURL:   appURL,
		logger:   log.Named("billing"),
	}
}

// SubscriptionDTO is the entitlement record as the profile page reads it.
type SubscriptionDTO struct {
	UserID               string             `json:"userId"`
	Email                string             `json:"email"`
	StripeSubscriptionID *string            `json:"stripeSubscriptionId"`
	SubscriptionActive   bool               `json:"subscriptionActive"`
	SubscriptionTier     *string            `json:"subscriptionTier"`
	Access               access.AccessState `json:"access"`
	Capabilities         []string           `json:"capabilities"`
	Status               string             `json:"status,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

func buildSubscriptionDTO(p *profiles.Profile, status string) SubscriptionDTO {
	state := access.ComputeAccessState(p)
	return SubscriptionDTO{
		UserID:               p.UserID,
		Email:                p.Email,
		StripeSubscriptionID: p.StripeSubscriptionID,
		SubscriptionActive:   p.SubscriptionActive,
		SubscriptionTier:     p.SubscriptionTier,
		Access:               state,
		Capabilities:         access.Capabilities(state),
		Status:               status,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// currentUser returns the caller's id, writing a 401 when the auth
// middleware did not set one.
func currentUser(c *gin.Context) (userID, email string, ok bool) {
	userID = c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return "", "", false
	}
	return userID, c.GetString(middleware.ContextEmail), true
}
