package webhookevents

import "time"

// StripeEvent is one provider event that went through dispatch.
type StripeEvent struct {
	EventID     string `gorm:"primaryKey;column:event_id;type:varchar(191)"`
	Type        string `gorm:"column:type;type:varchar(100);not null;index"`
	Outcome     string `gorm:"column:outcome;type:varchar(32);not null"`
	ProcessedAt time.Time
}
