package profiles

import "time"

// Profile is the per-user entitlement record. The three subscription columns
// are written by the webhook reconciliation routines only, apart from the tier
// swap done by change-plan after the provider confirmed it.
type Profile struct {
	UserID               string     `gorm:"primaryKey;column:user_id;type:varchar(191)"`
	Email                string     `gorm:"column:email"`
	StripeSubscriptionID *string    `gorm:"column:stripe_subscription_id;uniqueIndex:idx_profiles_stripe_subscription_id"`
	SubscriptionActive   bool       `gorm:"column:subscription_active;not null"`
	SubscriptionTier     *string    `gorm:"column:subscription_tier"`
	LastEventAt          *time.Time `gorm:"column:last_event_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSubscription reports whether a provider subscription id is stored.
func (p *Profile) HasSubscription() bool {
	return p.StripeSubscriptionID != nil && *p.StripeSubscriptionID != ""
}
