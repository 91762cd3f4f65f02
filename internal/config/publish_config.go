package config

type Publish struct{}

var _ PublishConfig = Publish{}

// GetKafkaBrokers returns the Kafka bootstrap brokers. Empty disables the
// Kafka sink.
func (Publish) GetKafkaBrokers() []string {
	return CSVEnv("KAFKA_BROKERS", "")
}

func (Publish) GetKafkaSignalTopic() string {
	return GetEnv("KAFKA_SIGNAL_TOPIC", "sova.signals")
}

// GetRedisAddr returns the Redis address. Empty disables the Redis sink.
func (Publish) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Publish) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Publish) GetRedisDB() int {
	return IntEnv("REDIS_DB", 0)
}

func (Publish) GetRedisSignalChannel() string {
	return GetEnv("REDIS_SIGNAL_CHANNEL", "sova:signals")
}
