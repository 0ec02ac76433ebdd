package memory

import (
	"context"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/printstudio/docengine/internal/config"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/pubsub"
)

// PubSub is the process-local change bus backed by watermill's gochannel.
// Changes are not persisted: a subscriber only sees what is published after
// it subscribed, and a slow subscriber holds up nobody.
type PubSub struct {
	channel *gochannel.GoChannel
	logger  *logger.Logger
	closed  atomic.Bool
}

func NewPubSub(cfg *config.Configuration, logger *logger.Logger) pubsub.PubSub {
	return &PubSub{
		channel: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: cfg.Events.Buffer,
			},
			watermill.NopLogger{},
		),
		logger: logger,
	}
}

func (p *PubSub) Publish(ctx context.Context, topic string, msg *message.Message) error {
	if p.closed.Load() {
		return ierr.NewError("change bus is closed").
			WithReportableDetails(map[string]any{"topic": topic}).
			Mark(ierr.ErrInvalidOperation)
	}

	msg.SetContext(ctx)
	if err := p.channel.Publish(topic, msg); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish change").
			Mark(ierr.ErrSystem)
	}
	p.logger.Debugw("published change", "topic", topic, "kind", msg.Metadata.Get("kind"))
	return nil
}

func (p *PubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if p.closed.Load() {
		return nil, ierr.NewError("change bus is closed").
			Mark(ierr.ErrInvalidOperation)
	}
	return p.channel.Subscribe(ctx, topic)
}

// Close ends every open subscription. It is safe to call more than once.
func (p *PubSub) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.logger.Debugw("closing change bus")
	return p.channel.Close()
}
