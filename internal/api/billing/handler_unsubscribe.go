package billing

import (
	"errors"
	"net/http"

	"fitcoach-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Unsubscribe cancels at the provider. The record is cleared when the
// customer.subscription.deleted event arrives.
func (h *Handler) Unsubscribe(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	profile, err := h.store.Get(ctx, userID)
	if err != nil && !errors.Is(err, profiles.ErrNotFound) {
		h.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error."})
		return
	}
	if err != nil || !profile.HasSubscription() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No subscription to cancel"})
		return
	}

	subscriptionID := *profile.StripeSubscriptionID
	if err := h.provider.CancelSubscription(ctx, subscriptionID); err != nil {
		h.logger.Error("failed to cancel subscription",
			zap.String("user_id", userID),
			zap.String("subscription_id", subscriptionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel subscription"})
		return
	}

	h.logger.Info("subscription cancel requested", zap.String("user_id", userID), zap.String("subscription_id", subscriptionID))
	c.JSON(http.StatusOK, gin.H{"message": "Subscription canceled"})
}
