package publish

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-signal-server/signals"
	"github.com/pkg/errors"
	redis "github.com/redis/go-redis/v9"
)

var _ signals.Publisher = (*RedisPublisher)(nil)

// RedisPublisher publishes signals as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

func NewRedisPublisher(opts RedisOptions) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisPublisher{client: client, channel: opts.Channel}
}

func (p *RedisPublisher) Name() string {
	return "redis:" + p.channel
}

func (p *RedisPublisher) Publish(ctx context.Context, s signals.Signal) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "[RedisPublisher.Publish] json.Marshal")
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "[RedisPublisher.Publish] Publish %s", p.channel)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
