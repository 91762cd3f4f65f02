// Package publish holds the external sinks signals are broadcast to.
package publish

import (
	"github.com/jrsteele09/go-signal-server/internal/config"
	"github.com/jrsteele09/go-signal-server/signals"
)

// FromConfig builds a publisher for every configured sink.
func FromConfig(cfg config.PublishConfig) []signals.Publisher {
	var publishers []signals.Publisher
	if brokers := cfg.GetKafkaBrokers(); len(brokers) > 0 {
		publishers = append(publishers, NewKafkaPublisher(brokers, cfg.GetKafkaSignalTopic()))
	}
	if addr := cfg.GetRedisAddr(); addr != "" {
		publishers = append(publishers, NewRedisPublisher(RedisOptions{
			Addr:     addr,
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
			Channel:  cfg.GetRedisSignalChannel(),
		}))
	}
	return publishers
}
