package billing

import (
	"errors"
	"net/http"
	"strings"

	"fitcoach-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChangePlan swaps the subscription price at the provider and then stores
// the new tier. The active flag and subscription id are left to the webhook.
func (h *Handler) ChangePlan(c *gin.Context) {
	var body struct {
		NewPlan string `json:"newPlan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.NewPlan) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid newPlan"})
		return
	}

	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	plan, found := h.catalog.Lookup(body.NewPlan)
	if !found || plan.StripePriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan type"})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.store.Get(ctx, userID)
	if errors.Is(err, profiles.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active subscription to change. Use checkout first."})
		return
	}
	if err != nil {
		h.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error."})
		return
	}
	if !profile.SubscriptionActive || !profile.HasSubscription() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active subscription to change. Use checkout first."})
		return
	}

	if profile.SubscriptionTier != nil && *profile.SubscriptionTier == plan.Type {
		c.JSON(http.StatusOK, gin.H{"message": "Already on this plan", "subscription": buildSubscriptionDTO(profile, "")})
		return
	}

	subscriptionID := *profile.StripeSubscriptionID
	if err := h.provider.ChangeSubscriptionPrice(ctx, subscriptionID, plan.StripePriceID, plan.Type); err != nil {
		h.logger.Error("failed to change subscription price",
			zap.String("user_id", userID),
			zap.String("subscription_id", subscriptionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
		return
	}

	// The only subscription-field write outside the webhook: tier only, and
	// only after the provider accepted the new price.
	if err := h.store.SetTier(ctx, userID, plan.Type); err != nil {
		h.logger.Error("provider changed but tier not stored",
			zap.String("user_id", userID),
			zap.String("tier", plan.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error."})
		return
	}

	tier := plan.Type
	profile.SubscriptionTier = &tier
	c.JSON(http.StatusOK, gin.H{"message": "Subscription plan updated", "subscription": buildSubscriptionDTO(profile, "")})
}
