package publish

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-signal-server/signals"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

var _ signals.Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher publishes signals to a Kafka topic keyed by asset.
type KafkaPublisher struct {
	writer *kafka.Writer
	Topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer, Topic: topic}
}

func (p *KafkaPublisher) Name() string {
	return "kafka:" + p.Topic
}

func (p *KafkaPublisher) Publish(ctx context.Context, s signals.Signal) error {
	msg, err := signalMessage(s)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, "[KafkaPublisher.Publish] WriteMessages")
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func signalMessage(s signals.Signal) (kafka.Message, error) {
	value, err := json.Marshal(s)
	if err != nil {
		return kafka.Message{}, errors.Wrap(err, "[signalMessage] json.Marshal")
	}
	return kafka.Message{
		Key:   []byte(s.Asset),
		Value: value,
		Time:  s.Timestamp,
	}, nil
}
