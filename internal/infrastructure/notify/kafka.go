package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type kafkaPublisher struct {
	writer *kafka.Writer
}

// newKafkaPublisher usa un writer asíncrono: WriteMessages encola y retorna; los fallos de
// entrega llegan a Completion y solo se registran.
func newKafkaPublisher(brokers []string, topic string, log zerolog.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err == nil {
					return
				}
				for _, m := range messages {
					log.Warn().Err(err).Str("event", string(m.Key)).Str("topic", topic).Msg("kafka rechazó la notificación")
				}
			},
		},
	}
}

func (k *kafkaPublisher) Publish(ctx context.Context, key, value []byte) error {
	return k.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

func (k *kafkaPublisher) Close() error {
	return k.writer.Close()
}
