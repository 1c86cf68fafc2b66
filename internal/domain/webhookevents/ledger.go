package webhookevents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger remembers which provider events were already dispatched so a
// redelivery can be acknowledged without running the routine again.
type Ledger interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, eventID, eventType, outcome string) error
}

type GormLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db, now: time.Now}
}

func (l *GormLedger) Seen(ctx context.Context, eventID string) (bool, error) {
	var ev StripeEvent
	err := l.db.WithContext(ctx).Where("event_id = ?", eventID).Take(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup event %s: %w", eventID, err)
	}
	return true, nil
}

func (l *GormLedger) Record(ctx context.Context, eventID, eventType, outcome string) error {
	ev := StripeEvent{
		EventID:     eventID,
		Type:        eventType,
		Outcome:     outcome,
		ProcessedAt: l.now(),
	}
	if err := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ev).Error; err != nil {
		return fmt.Errorf("record event %s: %w", eventID, err)
	}
	return nil
}
