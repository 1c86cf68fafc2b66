// Package profilestest provides an in-memory profiles.Store for handler tests.
package profilestest

import (
	"context"
	"sort"
	"sync"
	"time"

	"fitcoach-app/internal/domain/profiles"
)

type Store struct {
	mu      sync.Mutex
	records map[string]profiles.Profile

	writes int

	// Err, when set, is returned by every method.
	Err error
	// Per-operation failures, checked after Err.
	FindErr     error
	ActivateErr error
	WriteErr    error
}

func New(seed ...profiles.Profile) *Store {
	s := &Store{records: map[string]profiles.Profile{}}
	for _, p := range seed {
		s.records[p.UserID] = p
	}
	return s
}

// WriteCount is the number of mutations applied so far.
func (s *Store) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Snapshot returns a copy of the stored record.
func (s *Store) Snapshot(userID string) (profiles.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[userID]
	return p, ok
}

func (s *Store) Get(_ context.Context, userID string) (*profiles.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.records[userID]
	if !ok {
		return nil, profiles.ErrNotFound
	}
	return &p, nil
}

func (s *Store) FindBySubscriptionID(_ context.Context, subscriptionID string) (*profiles.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := firstErr(s.Err, s.FindErr); err != nil {
		return nil, err
	}
	for _, p := range s.records {
		if p.StripeSubscriptionID != nil && *p.StripeSubscriptionID == subscriptionID {
			cp := p
			return &cp, nil
		}
	}
	return nil, profiles.ErrNotFound
}

func (s *Store) Ensure(_ context.Context, userID, email string) (*profiles.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.records[userID]
	if !ok {
		now := time.Now()
		p = profiles.Profile{UserID: userID, Email: email, CreatedAt: now, UpdatedAt: now}
		s.records[userID] = p
		s.writes++
	}
	return &p, nil
}

func (s *Store) Activate(_ context.Context, userID, subscriptionID string, tier *string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := firstErr(s.Err, s.ActivateErr); err != nil {
		return err
	}
	p := s.records[userID]
	p.UserID = userID
	p.StripeSubscriptionID = &subscriptionID
	p.SubscriptionActive = true
	p.SubscriptionTier = tier
	p.LastEventAt = &at
	s.records[userID] = p
	s.writes++
	return nil
}

func (s *Store) Deactivate(_ context.Context, userID string, at time.Time) error {
	return s.mutate(userID, func(p *profiles.Profile) {
		p.SubscriptionActive = false
		p.LastEventAt = &at
	})
}

func (s *Store) Clear(_ context.Context, userID string, at time.Time) error {
	return s.mutate(userID, func(p *profiles.Profile) {
		p.SubscriptionActive = false
		p.StripeSubscriptionID = nil
		p.SubscriptionTier = nil
		p.LastEventAt = &at
	})
}

func (s *Store) SetTier(_ context.Context, userID, tier string) error {
	return s.mutate(userID, func(p *profiles.Profile) {
		p.SubscriptionTier = &tier
	})
}

func (s *Store) List(_ context.Context) ([]profiles.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]profiles.Profile, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *Store) mutate(userID string, fn func(p *profiles.Profile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := firstErr(s.Err, s.WriteErr); err != nil {
		return err
	}
	p, ok := s.records[userID]
	if !ok {
		return profiles.ErrNotFound
	}
	fn(&p)
	s.records[userID] = p
	s.writes++
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

var _ profiles.Store = (*Store)(nil)
