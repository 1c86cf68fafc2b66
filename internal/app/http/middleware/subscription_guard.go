package middleware

import (
	"errors"
	"net/http"

	"fitcoach-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const SubscribePath = "/subscribe"

// RequireActiveSubscription lets the request through only when the caller's
// record says subscription_active. Lookup failures are treated as inactive.
func RequireActiveSubscription(store profiles.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		profile, err := store.Get(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, profiles.ErrNotFound) {
			log.Error("subscription check failed", zap.String("user_id", userID), zap.Error(err))
		}
		if err != nil || !profile.SubscriptionActive {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":    "An active subscription is required",
				"redirect": SubscribePath,
			})
			return
		}

		c.Next()
	}
}
