package stripewebhooks

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

// handleInvoicePaymentFailed drops access but keeps the subscription id and
// tier; the provider may still collect on a retry.
func (h *Handler) handleInvoicePaymentFailed(ctx context.Context, log *zap.Logger, invoice *stripe.Invoice, at time.Time) Outcome {
	subscriptionID := invoiceSubscriptionID(invoice)
	if subscriptionID == "" {
		log.Info("invoice has no subscription id")
		return OutcomeNoop
	}

	userID, outcome, ok := h.resolveUserID(ctx, log, subscriptionID)
	if !ok {
		return outcome
	}

	if err := h.store.Deactivate(ctx, userID, at); err != nil {
		log.Error("failed to deactivate subscription",
			zap.String("user_id", userID),
			zap.String("subscription_id", subscriptionID),
			zap.Error(err),
		)
		return OutcomeSwallowed
	}
	return OutcomeApplied
}

// invoiceSubscriptionID reads the top-level subscription reference and falls
// back to the first line item that carries one; older API versions only fill
// the latter.
func invoiceSubscriptionID(invoice *stripe.Invoice) string {
	if invoice.Subscription != nil && invoice.Subscription.ID != "" {
		return invoice.Subscription.ID
	}
	if invoice.Lines == nil {
		return ""
	}
	for _, line := range invoice.Lines.Data {
		if line != nil && line.Subscription != nil && line.Subscription.ID != "" {
			return line.Subscription.ID
		}
	}
	return ""
}
