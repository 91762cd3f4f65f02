package signals

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultQueueSize      = 256
	defaultPublishTimeout = 5 * time.Second
)

// Publisher forwards signals to an external sink.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, s Signal) error
	Close() error
}

// Broadcaster fans appended signals out to publishers from a background
// goroutine so that ingestion never waits on a sink.
type Broadcaster struct {
	publishers []Publisher
	queue      chan Signal
	timeout    time.Duration
}

type BroadcasterOption func(*Broadcaster)

func WithQueueSize(size int) BroadcasterOption {
	return func(b *Broadcaster) {
		if size > 0 {
			b.queue = make(chan Signal, size)
		}
	}
}

func WithPublishTimeout(timeout time.Duration) BroadcasterOption {
	return func(b *Broadcaster) {
		b.timeout = timeout
	}
}

func NewBroadcaster(publishers []Publisher, options ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		publishers: publishers,
		queue:      make(chan Signal, defaultQueueSize),
		timeout:    defaultPublishTimeout,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Enabled reports whether any publisher is configured.
func (b *Broadcaster) Enabled() bool {
	return b != nil && len(b.publishers) > 0
}

// Enqueue queues s for publishing. It never blocks; when the queue is full
// the signal is dropped and reported as false.
func (b *Broadcaster) Enqueue(s Signal) bool {
	if !b.Enabled() {
		return false
	}
	select {
	case b.queue <- s:
		return true
	default:
		log.Warn().Int64("signal_id", s.ID).Msg("signal broadcast queue full, dropping signal")
		return false
	}
}

// Run publishes queued signals until ctx is cancelled, then closes every publisher.
func (b *Broadcaster) Run(ctx context.Context) error {
	defer b.close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-b.queue:
			b.publish(ctx, s)
		}
	}
}

func (b *Broadcaster) publish(ctx context.Context, s Signal) {
	for _, p := range b.publishers {
		pctx, cancel := context.WithTimeout(ctx, b.timeout)
		if err := p.Publish(pctx, s); err != nil {
			log.Err(err).Str("publisher", p.Name()).Int64("signal_id", s.ID).Msg("failed to publish signal")
		}
		cancel()
	}
}

func (b *Broadcaster) close() {
	for _, p := range b.publishers {
		if err := p.Close(); err != nil {
			log.Err(err).Str("publisher", p.Name()).Msg("failed to close publisher")
		}
	}
}
