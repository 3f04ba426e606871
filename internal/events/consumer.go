package events

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one decoded chat event. Errors are logged, not retried;
// the commit still happens so a poison message cannot wedge the group.
type Handler func(ctx context.Context, event ChatEvent) error

// Consumer reads chat events from Kafka and hands them to a Handler.
type Consumer struct {
	reader *kafka.Reader
	handle Handler
}

func NewConsumer(brokers, groupID, topic string, h Handler) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        strings.Split(brokers, ","),
			GroupID:        groupID,
			Topic:          topic,
			MinBytes:       10e3,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
		}),
		handle: h,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		_ = c.reader.Close()
	}()

	log := logrus.WithFields(logrus.Fields{
		"group": c.reader.Config().GroupID,
		"topic": c.reader.Config().Topic,
	})
	log.Info("kafka consumer started")

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("kafka consumer shutting down")
				return nil
			}
			log.WithError(err).Warn("kafka fetch error")
			time.Sleep(time.Second)
			continue
		}

		event, err := UnmarshalChatEvent(m.Value)
		if err != nil {
			log.WithError(err).Warn("dropping undecodable event")
		} else if c.handle != nil {
			if err := c.handle(ctx, event); err != nil {
				log.WithError(err).WithField("type", event.Type).Warn("event handler error")
			}
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			log.WithError(err).Warn("kafka commit error")
		}
	}
}
