package subscriptions

import (
	"sort"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/pkg/errors"
)

// Registry holds at most one current subscription per user. Expiry is
// applied lazily: any read that observes an active subscription past its
// expiry flips it to expired.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Subscription // userID -> subscription
	nowFunc func() time.Time
}

type RegistryOption func(*Registry)

func WithNowFunc(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.nowFunc = now
	}
}

func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		records: make(map[string]*Subscription),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Activate replaces any existing subscription for userID with a new one
// lasting months calendar months from now. Durations never stack.
func (r *Registry) Activate(userID string, months int, payment Payment) (Subscription, error) {
	if userID == "" {
		return Subscription{}, errors.Wrap(apperrors.ErrInvalidRequest, "user id is required")
	}
	if months <= 0 {
		return Subscription{}, errors.Wrap(apperrors.ErrInvalidRequest, "months must be positive")
	}

	now := r.nowFunc()
	sub := &Subscription{
		UserID:      userID,
		Status:      StatusActive,
		ActivatedAt: now,
		ExpiresAt:   AddMonths(now, months),
		Months:      months,
		PaymentRef:  payment.Reference,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Channel:     payment.Channel,
	}

	r.mu.Lock()
	r.records[userID] = sub
	r.mu.Unlock()
	return *sub, nil
}

// Deactivate marks the user's subscription expired. Missing records are ignored.
func (r *Registry) Deactivate(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.records[userID]; ok {
		sub.Status = StatusExpired
	}
}

// Delete removes the user's subscription entirely.
func (r *Registry) Delete(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, userID)
}

// Get returns a copy of the user's subscription after applying lazy expiry.
func (r *Registry) Get(userID string) (Subscription, bool) {
	sub, found, _ := r.lookup(userID)
	return sub, found
}

// StatusOf reports the user's subscription state after applying lazy expiry.
func (r *Registry) StatusOf(userID string) StatusReport {
	sub, found, _ := r.lookup(userID)
	if !found {
		return StatusReport{}
	}
	return sub.report()
}

// IsActiveFor reports whether the user holds an unexpired active subscription.
func (r *Registry) IsActiveFor(userID string) bool {
	sub, found, _ := r.lookup(userID)
	return found && sub.Status == StatusActive
}

// Require returns nil for an active subscription, ErrSubscriptionExpired
// when this very check expired it, and ErrSubscriptionRequired otherwise.
func (r *Registry) Require(userID string) error {
	sub, found, expiredNow := r.lookup(userID)
	switch {
	case expiredNow:
		return apperrors.ErrSubscriptionExpired
	case found && sub.Status == StatusActive:
		return nil
	default:
		return apperrors.ErrSubscriptionRequired
	}
}

// List returns every subscription after applying lazy expiry, ordered by user id.
func (r *Registry) List() []Subscription {
	r.ExpireStale()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Subscription, 0, len(r.records))
	for _, sub := range r.records {
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// CountActive returns the number of unexpired active subscriptions.
func (r *Registry) CountActive() int {
	r.ExpireStale()

	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, sub := range r.records {
		if sub.Status == StatusActive {
			n++
		}
	}
	return n
}

// ExpireStale flips every overdue active subscription to expired and
// returns how many were flipped.
func (r *Registry) ExpireStale() int {
	now := r.nowFunc()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, sub := range r.records {
		if sub.isStale(now) {
			sub.Status = StatusExpired
			n++
		}
	}
	return n
}

// lookup reads under the read lock and upgrades to the write lock only when
// the record needs to be flipped to expired. expiredNow is true when this
// call performed the flip.
func (r *Registry) lookup(userID string) (sub Subscription, found bool, expiredNow bool) {
	now := r.nowFunc()

	r.mu.RLock()
	current, ok := r.records[userID]
	if !ok {
		r.mu.RUnlock()
		return Subscription{}, false, false
	}
	if !current.isStale(now) {
		sub = *current
		r.mu.RUnlock()
		return sub, true, false
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check: the record may have been replaced or flipped between locks
	current, ok = r.records[userID]
	if !ok {
		return Subscription{}, false, false
	}
	if current.isStale(now) {
		current.Status = StatusExpired
		expiredNow = true
	}
	return *current, true, expiredNow
}
