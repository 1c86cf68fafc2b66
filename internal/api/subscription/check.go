package subscription

import (
	"errors"
	"net/http"
	"strings"

	"fitcoach-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	store  profiles.Store
	logger *zap.Logger
}

func NewHandler(store profiles.Store, log *zap.Logger) *Handler {
	return &Handler{store: store, logger: log.Named("subscription")}
}

// CheckSubscription answers GET /api/check-subscription?userId=. An unknown
// user is reported as not subscribed.
func (h *Handler) CheckSubscription(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId."})
		return
	}

	profile, err := h.store.Get(c.Request.Context(), userID)
	switch {
	case errors.Is(err, profiles.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"subscriptionActive": false})
	case err != nil:
		h.logger.Error("subscription lookup failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error."})
	default:
		c.JSON(http.StatusOK, gin.H{"subscriptionActive": profile.SubscriptionActive})
	}
}
