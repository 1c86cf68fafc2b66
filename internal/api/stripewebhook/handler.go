package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fitcoach-app/internal/domain/profiles"
	"fitcoach-app/internal/domain/webhookevents"
	"fitcoach-app/internal/infra/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

const maxBodyBytes = 65536

type Handler struct {
	verifier *Verifier
	store    profiles.Store
	ledger   webhookevents.Ledger
	logger   *zap.Logger
}

// NewHandler wires the reconciliation handler. ledger may be nil, in which
// case redeliveries are dispatched again.
func NewHandler(verifier *Verifier, store profiles.Store, ledger webhookevents.Ledger, log *zap.Logger) *Handler {
	return &Handler{
		verifier: verifier,
		store:    store,
		ledger:   ledger,
		logger:   log.Named("stripewebhook"),
	}
}

func (h *Handler) StripeWebhook(c *gin.Context) {
	start := time.Now()

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := h.verifier.Verify(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("signature verification failed", zap.Error(err))
		metrics.WebhookEvents.WithLabelValues("unverified", "invalid_signature").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventType := string(event.Type)
	log := h.logger.With(zap.String("event_id", event.ID), zap.String("type", eventType))
	defer func() {
		metrics.WebhookDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
	}()

	kind := Classify(eventType)
	if kind == KindUnknown {
		log.Info("unhandled event type")
		metrics.WebhookEvents.WithLabelValues(eventType, string(OutcomeIgnored)).Inc()
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	ctx := c.Request.Context()
	if h.alreadyProcessed(ctx, log, event.ID) {
		log.Info("duplicate delivery acknowledged")
		metrics.WebhookEvents.WithLabelValues(eventType, string(OutcomeDuplicate)).Inc()
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	outcome, err := h.dispatch(ctx, log, kind, &event)
	if err != nil {
		// Signed but undecodable data will not improve on retry.
		log.Warn("event data could not be decoded", zap.Error(err))
		metrics.WebhookEvents.WithLabelValues(eventType, "malformed").Inc()
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	log.Info("event reconciled", zap.String("outcome", string(outcome)))
	metrics.WebhookEvents.WithLabelValues(eventType, string(outcome)).Inc()
	h.markProcessed(ctx, log, event.ID, eventType, outcome)

	c.JSON(http.StatusOK, gin.H{})
}

// dispatch runs exactly one routine. Errors are limited to payloads that do
// not decode into the provider object the event type promises; the caller
// acknowledges those as a no-op. Store failures are handled inside the
// routines.
func (h *Handler) dispatch(ctx context.Context, log *zap.Logger, kind EventKind, event *stripe.Event) (Outcome, error) {
	if event.Data == nil {
		return "", fmt.Errorf("%w: event has no data object", ErrMalformedEvent)
	}
	at := eventTime(event)

	switch kind {
	case KindCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return "", fmt.Errorf("%w: failed to parse checkout session: %v", ErrMalformedEvent, err)
		}
		return h.handleCheckoutSessionCompleted(ctx, log, &session, at), nil

	case KindInvoicePaymentFailed:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return "", fmt.Errorf("%w: failed to parse invoice: %v", ErrMalformedEvent, err)
		}
		return h.handleInvoicePaymentFailed(ctx, log, &invoice, at), nil

	case KindSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "", fmt.Errorf("%w: failed to parse subscription: %v", ErrMalformedEvent, err)
		}
		return h.handleSubscriptionDeleted(ctx, log, &sub, at), nil

	default:
		return OutcomeIgnored, nil
	}
}

// resolveUserID is the reverse lookup shared by the invoice and deletion
// routines. ok is false when the routine should stop without writing.
func (h *Handler) resolveUserID(ctx context.Context, log *zap.Logger, subscriptionID string) (userID string, outcome Outcome, ok bool) {
	profile, err := h.store.FindBySubscriptionID(ctx, subscriptionID)
	if errors.Is(err, profiles.ErrNotFound) {
		log.Info("no profile found for subscription", zap.String("subscription_id", subscriptionID))
		return "", OutcomeNoop, false
	}
	if err != nil {
		log.Error("profile lookup failed", zap.String("subscription_id", subscriptionID), zap.Error(err))
		return "", OutcomeSwallowed, false
	}
	return profile.UserID, "", true
}

func (h *Handler) alreadyProcessed(ctx context.Context, log *zap.Logger, eventID string) bool {
	if h.ledger == nil || eventID == "" {
		return false
	}
	seen, err := h.ledger.Seen(ctx, eventID)
	if err != nil {
		log.Warn("processed-event lookup failed", zap.Error(err))
		return false
	}
	return seen
}

// markProcessed records applied and no-op events only. A swallowed write
// stays unrecorded so a resend of the same event can still apply it.
func (h *Handler) markProcessed(ctx context.Context, log *zap.Logger, eventID, eventType string, outcome Outcome) {
	if h.ledger == nil || eventID == "" {
		return
	}
	if outcome != OutcomeApplied && outcome != OutcomeNoop {
		return
	}
	if err := h.ledger.Record(ctx, eventID, eventType, string(outcome)); err != nil {
		log.Warn("failed to record processed event", zap.Error(err))
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
