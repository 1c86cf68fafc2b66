package billing

import (
	"net/http"
	"strings"

	stripeinfra "fitcoach-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateCheckoutSession starts a subscription checkout for the signed-in
// user. The entitlement record is only written later by the webhook.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PlanType string `json:"planType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.PlanType) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid planType"})
		return
	}

	userID, email, ok := currentUser(c)
	if !ok {
		return
	}

	plan, found := h.catalog.Lookup(body.PlanType)
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan type"})
		return
	}
	if plan.StripePriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan is not available for purchase"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Ensure(ctx, userID, email); err != nil {
		h.logger.Error("failed to ensure profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Error."})
		return
	}

	url, err := h.provider.CreateCheckoutSession(ctx, stripeinfra.CheckoutRequest{
		UserID:     userID,
		Email:      email,
		PlanType:   plan.Type,
		PriceID:    plan.StripePriceID,
		SuccessURL: h.appURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  h.appURL + "/subscribe",
	})
	if err != nil {
		h.logger.Error("failed to create checkout session", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
