package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound   = errors.New("profile not found")
	ErrStaleEvent = errors.New("event older than last applied event")
)

// Store is the entitlement store consumed by the webhook routines, the status
// endpoint, the route guard and the profile flow.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*Profile, error)
	Ensure(ctx context.Context, userID, email string) (*Profile, error)
	Activate(ctx context.Context, userID, subscriptionID string, tier *string, at time.Time) error
	Deactivate(ctx context.Context, userID string, at time.Time) error
	Clear(ctx context.Context, userID string, at time.Time) error
	SetTier(ctx context.Context, userID, tier string) error
	List(ctx context.Context) ([]Profile, error)
}

type GormStore struct {
	db *gorm.DB
	// orderingGuard makes routine writes conditional on last_event_at.
	orderingGuard bool
}

func NewGormStore(db *gorm.DB, orderingGuard bool) *GormStore {
	return &GormStore{db: db, orderingGuard: orderingGuard}
}

func (s *GormStore) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return &p, nil
}

func (s *GormStore) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*Profile, error) {
	var p Profile
	if err := s.db.WithContext(ctx).Where("stripe_subscription_id = ?", subscriptionID).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile by subscription %s: %w", subscriptionID, err)
	}
	return &p, nil
}

func (s *GormStore) Ensure(ctx context.Context, userID, email string) (*Profile, error) {
	p := Profile{UserID: userID, Email: email}
	if err := s.db.WithContext(ctx).
		Where(Profile{UserID: userID}).
		Attrs(Profile{Email: email}).
		FirstOrCreate(&p).Error; err != nil {
		return nil, fmt.Errorf("ensure profile %s: %w", userID, err)
	}
	return &p, nil
}

// Activate upserts the subscription id, the active flag and the tier in one
// statement so the flag is never true without an id.
func (s *GormStore) Activate(ctx context.Context, userID, subscriptionID string, tier *string, at time.Time) error {
	p := Profile{
		UserID:               userID,
		StripeSubscriptionID: &subscriptionID,
		SubscriptionActive:   true,
		SubscriptionTier:     tier,
		LastEventAt:          &at,
	}

	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_subscription_id",
			"subscription_active",
			"subscription_tier",
			"last_event_at",
			"updated_at",
		}),
	}
	if s.orderingGuard {
		onConflict.Where = clause.Where{Exprs: []clause.Expression{
			clause.Expr{
				SQL:  "profiles.last_event_at IS NULL OR profiles.last_event_at <= ?",
				Vars: []interface{}{at},
			},
		}}
	}

	res := s.db.WithContext(ctx).Clauses(onConflict).Create(&p)
	if res.Error != nil {
		return fmt.Errorf("activate profile %s: %w", userID, res.Error)
	}
	if s.orderingGuard && res.RowsAffected == 0 {
		return ErrStaleEvent
	}
	return nil
}

func (s *GormStore) Deactivate(ctx context.Context, userID string, at time.Time) error {
	return s.update(ctx, userID, at, map[string]interface{}{
		"subscription_active": false,
	})
}

func (s *GormStore) Clear(ctx context.Context, userID string, at time.Time) error {
	return s.update(ctx, userID, at, map[string]interface{}{
		"subscription_active":    false,
		"stripe_subscription_id": nil,
		"subscription_tier":      nil,
	})
}

func (s *GormStore) SetTier(ctx context.Context, userID, tier string) error {
	res := s.db.WithContext(ctx).Model(&Profile{}).
		Where("user_id = ?", userID).
		Update("subscription_tier", tier)
	if res.Error != nil {
		return fmt.Errorf("set tier for %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) List(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (s *GormStore) update(ctx context.Context, userID string, at time.Time, updates map[string]interface{}) error {
	updates["last_event_at"] = at

	q := s.db.WithContext(ctx).Model(&Profile{}).Where("user_id = ?", userID)
	if s.orderingGuard {
		q = q.Where("last_event_at IS NULL OR last_event_at <= ?", at)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update profile %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		if s.orderingGuard {
			return ErrStaleEvent
		}
		return ErrNotFound
	}
	return nil
}
