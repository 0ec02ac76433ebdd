package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/printstudio/docengine/internal/logger"
)

// Publisher publishes change notifications
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Close() error
}

// Subscriber hands out a message channel per subscription. The channel closes
// when ctx is done or the subscriber is closed.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

type PubSub interface {
	Publisher
	Subscriber
}

// SubscribeChanges subscribes to TopicChanges and decodes every message.
// Messages are acked on receipt and undecodable ones are logged and skipped.
func SubscribeChanges(ctx context.Context, sub Subscriber, log *logger.Logger) (<-chan ChangeEvent, error) {
	messages, err := sub.Subscribe(ctx, TopicChanges)
	if err != nil {
		return nil, err
	}

	events := make(chan ChangeEvent)
	go func() {
		defer close(events)
		for msg := range messages {
			msg.Ack()

			event, err := DecodeChange(msg)
			if err != nil {
				log.Warnw("dropping undecodable change event", "message_id", msg.UUID, "error", err)
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
