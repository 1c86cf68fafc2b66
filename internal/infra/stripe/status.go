package stripe

import (
	"strings"

	stripeapi "github.com/stripe/stripe-go/v75"
)

// Statuses the profile page renders.
const (
	StatusNone     = "none"
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

var profileStatuses = map[stripeapi.SubscriptionStatus]string{
	stripeapi.SubscriptionStatusActive:            StatusActive,
	stripeapi.SubscriptionStatusTrialing:          StatusTrialing,
	stripeapi.SubscriptionStatusPastDue:           StatusPastDue,
	stripeapi.SubscriptionStatusUnpaid:            StatusPastDue,
	stripeapi.SubscriptionStatusCanceled:          StatusCanceled,
	stripeapi.SubscriptionStatusIncompleteExpired: StatusCanceled,
}

// ProfileStatus maps a provider subscription status onto the profile page's
// vocabulary. Statuses it does not fold are passed through lowercased.
func ProfileStatus(status stripeapi.SubscriptionStatus) string {
	s := stripeapi.SubscriptionStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if s == "" {
		return StatusNone
	}
	if mapped, ok := profileStatuses[s]; ok {
		return mapped
	}
	return string(s)
}
