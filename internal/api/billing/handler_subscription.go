package billing

import (
	"net/http"

	stripeinfra "fitcoach-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetProfile bootstraps the entitlement record for a signed-in user.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.store.Ensure(c.Request.Context(), userID, email)
	if err != nil {
		h.logger.Error("failed to ensure profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": buildSubscriptionDTO(profile, "")})
}

// GetSubscriptionStatus returns the stored record plus the live provider
// status. A provider failure degrades to "unknown" rather than failing.
func (h *Handler) GetSubscriptionStatus(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	profile, err := h.store.Ensure(ctx, userID, email)
	if err != nil {
		h.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error."})
		return
	}

	status := stripeinfra.StatusNone
	if profile.HasSubscription() {
		status, err = h.provider.SubscriptionStatus(ctx, *profile.StripeSubscriptionID)
		if err != nil {
			h.logger.Warn("failed to fetch provider status",
				zap.String("user_id", userID),
				zap.String("subscription_id", *profile.StripeSubscriptionID),
				zap.Error(err),
			)
			status = "unknown"
		}
	}

	c.JSON(http.StatusOK, gin.H{"subscription": buildSubscriptionDTO(profile, status)})
}
