package stripewebhooks

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

// handleSubscriptionDeleted resets the record to its pre-subscription state.
func (h *Handler) handleSubscriptionDeleted(ctx context.Context, log *zap.Logger, sub *stripe.Subscription, at time.Time) Outcome {
	if sub.ID == "" {
		log.Info("deleted subscription has no id")
		return OutcomeNoop
	}

	userID, outcome, ok := h.resolveUserID(ctx, log, sub.ID)
	if !ok {
		return outcome
	}

	if err := h.store.Clear(ctx, userID, at); err != nil {
		log.Error("failed to clear subscription",
			zap.String("user_id", userID),
			zap.String("subscription_id", sub.ID),
			zap.Error(err),
		)
		return OutcomeSwallowed
	}
	return OutcomeApplied
}
