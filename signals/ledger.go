package signals

import (
	"strings"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/pkg/errors"
)

// Ledger is an append-only, bounded log of signals. Once the bound is
// exceeded the oldest signals are evicted first.
type Ledger struct {
	mu      sync.RWMutex
	signals []Signal // Oldest first
	lastID  int64
	limit   int
	nowFunc func() time.Time
}

type LedgerOption func(*Ledger)

func WithHistoryLimit(limit int) LedgerOption {
	return func(l *Ledger) {
		if limit > 0 {
			l.limit = limit
		}
	}
}

func WithNowFunc(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.nowFunc = now
	}
}

func NewLedger(options ...LedgerOption) *Ledger {
	l := &Ledger{
		limit:   DefaultHistoryLimit,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	l.signals = make([]Signal, 0, l.limit+1)
	return l
}

// Append validates and records a signal, evicting the oldest entries when
// the ledger grows past its limit.
func (l *Ledger) Append(asset, direction string, ingress Ingress) (Signal, error) {
	if strings.TrimSpace(asset) == "" || strings.TrimSpace(direction) == "" {
		return Signal{}, errors.Wrap(apperrors.ErrInvalidRequest, "missing asset or signal")
	}
	asset, direction = ingress.apply(asset, direction)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastID++
	s := Signal{
		ID:        l.lastID,
		Asset:     asset,
		Signal:    direction,
		Timestamp: l.nowFunc(),
		Source:    ingress.Source,
	}
	l.signals = append(l.signals, s)

	if excess := len(l.signals) - l.limit; excess > 0 {
		n := copy(l.signals, l.signals[excess:])
		clear(l.signals[n:])
		l.signals = l.signals[:n]
	}
	return s, nil
}

// ListAll returns every retained signal, newest first.
func (l *Ledger) ListAll() []Signal {
	return l.ListRecent(-1)
}

// ListRecent returns at most k signals, newest first. A negative k returns all.
func (l *Ledger) ListRecent(k int) []Signal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.recent(k)
}

// Len returns the number of retained signals.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.signals)
}

// Latest returns the most recent signal, if any.
func (l *Ledger) Latest() (Signal, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.signals) == 0 {
		return Signal{}, false
	}
	return l.signals[len(l.signals)-1], true
}

// Stats counts retained signals by direction and returns the k most recent.
func (l *Ledger) Stats(k int) Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	byDirection := make(map[string]int)
	for _, s := range l.signals {
		byDirection[strings.ToLower(s.Signal)]++
	}
	return Stats{
		Total:       len(l.signals),
		ByDirection: byDirection,
		Recent:      l.recent(k),
	}
}

// recent must be called with the lock held.
func (l *Ledger) recent(k int) []Signal {
	if k < 0 || k > len(l.signals) {
		k = len(l.signals)
	}
	out := make([]Signal, 0, k)
	for i := len(l.signals) - 1; i >= len(l.signals)-k; i-- {
		out = append(out, l.signals[i])
	}
	return out
}
