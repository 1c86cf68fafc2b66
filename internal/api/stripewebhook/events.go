package stripewebhooks

import (
	"errors"
	"time"

	"github.com/stripe/stripe-go/v75"
)

var ErrMalformedEvent = errors.New("malformed event")

// EventKind is the closed set of provider events this service reconciles.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindCheckoutCompleted
	KindInvoicePaymentFailed
	KindSubscriptionDeleted
)

const (
	EventCheckoutSessionCompleted    = "checkout.session.completed"
	EventInvoicePaymentFailed        = "invoice.payment_failed"
	EventCustomerSubscriptionDeleted = "customer.subscription.deleted"
)

func Classify(eventType string) EventKind {
	switch eventType {
	case EventCheckoutSessionCompleted:
		return KindCheckoutCompleted
	case EventInvoicePaymentFailed:
		return KindInvoicePaymentFailed
	case EventCustomerSubscriptionDeleted:
		return KindSubscriptionDeleted
	default:
		return KindUnknown
	}
}

func (k EventKind) String() string {
	switch k {
	case KindCheckoutCompleted:
		return EventCheckoutSessionCompleted
	case KindInvoicePaymentFailed:
		return EventInvoicePaymentFailed
	case KindSubscriptionDeleted:
		return EventCustomerSubscriptionDeleted
	default:
		return "unknown"
	}
}

// Outcome is what a routine did with an event. Only used for logs, metrics
// and the processed-event ledger; the HTTP response is 200 for all of them.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeNoop      Outcome = "noop"
	OutcomeSwallowed Outcome = "swallowed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

// eventTime is the provider creation time, used by the ordering guard.
func eventTime(event *stripe.Event) time.Time {
	if event.Created > 0 {
		return time.Unix(event.Created, 0)
	}
	return time.Now()
}
