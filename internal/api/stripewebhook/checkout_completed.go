package stripewebhooks

import (
	"context"
	"strings"
	"time"

	stripeinfra "fitcoach-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, log *zap.Logger, session *stripe.CheckoutSession, at time.Time) Outcome {
	userID := userIDFromSessionOrRef(session)
	if userID == "" {
		log.Info("checkout session has no user id")
		return OutcomeNoop
	}

	subscriptionID := ""
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}
	if subscriptionID == "" {
		log.Info("checkout session has no subscription id", zap.String("user_id", userID))
		return OutcomeNoop
	}

	var tier *string
	if planType := strings.TrimSpace(session.Metadata[stripeinfra.MetadataPlanType]); planType != "" {
		tier = &planType
	}

	if err := h.store.Activate(ctx, userID, subscriptionID, tier, at); err != nil {
		log.Error("failed to activate subscription",
			zap.String("user_id", userID),
			zap.String("subscription_id", subscriptionID),
			zap.Error(err),
		)
		return OutcomeSwallowed
	}
	return OutcomeApplied
}

// userIDFromSessionOrRef prefers the metadata attached at checkout and falls
// back to the client reference id.
func userIDFromSessionOrRef(session *stripe.CheckoutSession) string {
	if id := strings.TrimSpace(session.Metadata[stripeinfra.MetadataUserID]); id != "" {
		return id
	}
	return strings.TrimSpace(session.ClientReferenceID)
}
