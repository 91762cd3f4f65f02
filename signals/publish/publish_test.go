package publish

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-signal-server/internal/config"
	"github.com/jrsteele09/go-signal-server/signals"
	"github.com/stretchr/testify/require"
)

func TestSignalMessage(t *testing.T) {
	ts := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := signalMessage(signals.Signal{ID: 7, Asset: "EURUSD", Signal: "buy", Timestamp: ts, Source: "MT4 Advisor"})
	require.NoError(t, err)
	require.Equal(t, []byte("EURUSD"), msg.Key)
	require.Equal(t, ts, msg.Time)

	var decoded signals.Signal
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, int64(7), decoded.ID)
	require.Equal(t, "buy", decoded.Signal)
}

func TestFromConfig(t *testing.T) {
	t.Run("no sinks configured", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "")
		t.Setenv("REDIS_ADDR", "")
		require.Empty(t, FromConfig(config.New()))
	})

	t.Run("kafka and redis", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "localhost:9092, localhost:9093")
		t.Setenv("KAFKA_SIGNAL_TOPIC", "signals")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_SIGNAL_CHANNEL", "sig")

		publishers := FromConfig(config.New())
		require.Len(t, publishers, 2)
		require.Equal(t, "kafka:signals", publishers[0].Name())
		require.Equal(t, "redis:sig", publishers[1].Name())
		for _, p := range publishers {
			require.NoError(t, p.Close())
		}
	})
}

func TestRedisPublisher_PublishWrapsErrors(t *testing.T) {
	p := NewRedisPublisher(RedisOptions{Addr: "127.0.0.1:1", Channel: "sig"})
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Publish(ctx, signals.Signal{ID: 1, Asset: "EURUSD", Signal: "buy"})
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, err.Error(), "[RedisPublisher.Publish] Publish sig")
}

func TestKafkaPublisher_PublishWrapsErrors(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "signals")
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Publish(ctx, signals.Signal{ID: 1, Asset: "EURUSD", Signal: "buy"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "[KafkaPublisher.Publish] WriteMessages")
}
