package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/hdfops/field-console/internal/core/domain"
)

// KafkaNotifier publishes notifications to the topic consumed by the
// notification gateway. The writer runs in async mode so Notify returns
// without waiting for broker acknowledgement.
type KafkaNotifier struct {
	w   *kafka.Writer
	log zerolog.Logger
}

func NewKafkaNotifier(brokers []string, topic string, log zerolog.Logger) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{w: w, log: log}
}

func (n *KafkaNotifier) Notify(ctx context.Context, note domain.Notification) {
	if note.At.IsZero() {
		note.At = time.Now().UTC()
	}

	b, err := json.Marshal(note)
	if err != nil {
		n.log.Error().Err(err).Msg("marshal notification")
		return
	}

	err = n.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(note.Code),
		Value: b,
	})
	if err != nil {
		n.log.Error().Err(err).Str("code", note.Code).Msg("write notification message")
	}
}

func (n *KafkaNotifier) Close() {
	if err := n.w.Close(); err != nil {
		n.log.Error().Err(err).Msg("close kafka writer")
	}
}
