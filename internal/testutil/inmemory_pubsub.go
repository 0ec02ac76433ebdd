package testutil

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/printstudio/docengine/internal/pubsub"
	"github.com/samber/lo"
)

var _ pubsub.PubSub = (*InMemoryPubSub)(nil)

// InMemoryPubSub records every published message so tests can assert on the
// change events a service emitted. Subscribers behave like the gochannel bus:
// they only see messages published after they subscribed.
type InMemoryPubSub struct {
	mu          sync.Mutex
	published   map[string][]*message.Message
	subscribers map[string][]chan *message.Message
}

func NewInMemoryPubSub() *InMemoryPubSub {
	return &InMemoryPubSub{
		published:   make(map[string][]*message.Message),
		subscribers: make(map[string][]chan *message.Message),
	}
}

func (ps *InMemoryPubSub) Publish(_ context.Context, topic string, msg *message.Message) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.published[topic] = append(ps.published[topic], msg)
	for _, ch := range ps.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			// a stalled test subscriber must not block the service under test
		}
	}
	return nil
}

func (ps *InMemoryPubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan *message.Message, 16)
	ps.subscribers[topic] = append(ps.subscribers[topic], ch)

	go func() {
		<-ctx.Done()
		ps.unsubscribe(topic, ch)
	}()
	return ch, nil
}

func (ps *InMemoryPubSub) unsubscribe(topic string, ch chan *message.Message) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	subs := ps.subscribers[topic]
	if !lo.Contains(subs, ch) {
		return
	}
	ps.subscribers[topic] = lo.Without(subs, ch)
	close(ch)
}

// Close ends every subscription and forgets what was published
func (ps *InMemoryPubSub) Close() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, subs := range ps.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	ps.subscribers = make(map[string][]chan *message.Message)
	ps.published = make(map[string][]*message.Message)
	return nil
}

// Changes decodes the change events published so far, in order
func (ps *InMemoryPubSub) Changes() []pubsub.ChangeEvent {
	ps.mu.Lock()
	msgs := append([]*message.Message(nil), ps.published[pubsub.TopicChanges]...)
	ps.mu.Unlock()

	out := make([]pubsub.ChangeEvent, 0, len(msgs))
	for _, msg := range msgs {
		event, err := pubsub.DecodeChange(msg)
		if err != nil {
			continue
		}
		out = append(out, event)
	}
	return out
}

// ChangeKinds returns the kinds of the change events published so far
func (ps *InMemoryPubSub) ChangeKinds() []pubsub.ChangeKind {
	return lo.Map(ps.Changes(), func(e pubsub.ChangeEvent, _ int) pubsub.ChangeKind {
		return e.Kind
	})
}
