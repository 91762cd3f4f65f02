package subscriptions

import "time"

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Subscription is the current paid access grant for one user.
type Subscription struct {
	UserID      string    `json:"userId"`
	Status      Status    `json:"status"`
	ActivatedAt time.Time `json:"activatedAt"`
	ExpiresAt   time.Time `json:"expiresAt"` // Always ActivatedAt plus Months calendar months
	Months      int       `json:"months"`
	PaymentRef  string    `json:"paymentRef,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Channel     string    `json:"channel,omitempty"` // Payment system tag
}

// Payment describes the purchase that triggered an activation.
type Payment struct {
	Reference string
	Amount    float64
	Currency  string
	Channel   string
}

// StatusReport is the read model returned to callers.
type StatusReport struct {
	HasActive bool       `json:"hasActiveSubscription"`
	Status    Status     `json:"status,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Months    int        `json:"months,omitempty"`
}

func (s *Subscription) isStale(now time.Time) bool {
	return s.Status == StatusActive && now.After(s.ExpiresAt)
}

func (s *Subscription) report() StatusReport {
	expires := s.ExpiresAt
	return StatusReport{
		HasActive: s.Status == StatusActive,
		Status:    s.Status,
		ExpiresAt: &expires,
		Months:    s.Months,
	}
}

// AddMonths advances t by n calendar months. When the target month is
// shorter, the day is clamped to its last day (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(firstOfTarget); day > last {
		day = last
	}
	hour, minute, sec := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
