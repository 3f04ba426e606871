package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Publisher pushes chat events onto the event bus.
type Publisher interface {
	Publish(ctx context.Context, event ChatEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher writing to the given topic.
// Messages are keyed by room id so per-room ordering is preserved.
func NewKafkaPublisher(brokers, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(brokers, ",")...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event ChatEvent) error {
	value, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RoomID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"type":    event.Type,
		"room_id": event.RoomID,
	}).Debug("published chat event")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
