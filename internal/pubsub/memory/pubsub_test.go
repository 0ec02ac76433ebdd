package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/printstudio/docengine/internal/config"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSub_ChangeRoundTrip(t *testing.T) {
	ps := NewPubSub(config.GetDefaultConfig(), logger.NewNopLogger())
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := ps.Subscribe(ctx, pubsub.TopicChanges)
	require.NoError(t, err)

	at := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, pubsub.PublishChange(ctx, ps, pubsub.ChangeEvent{
		Kind:       pubsub.ChangeTemplateUpserted,
		TemplateID: "tmpl_1",
		At:         at,
	}))

	select {
	case msg := <-messages:
		msg.Ack()
		event, err := pubsub.DecodeChange(msg)
		require.NoError(t, err)
		assert.Equal(t, pubsub.ChangeTemplateUpserted, event.Kind)
		assert.Equal(t, "tmpl_1", event.TemplateID)
		assert.Equal(t, at, event.At)
		assert.Equal(t, string(pubsub.ChangeTemplateUpserted), msg.Metadata.Get("kind"))
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestPublishChange_NilPublisher(t *testing.T) {
	assert.NoError(t, pubsub.PublishChange(context.Background(), nil, pubsub.ChangeEvent{Kind: pubsub.ChangeBrandingUpdated}))
}

func TestPubSub_SubscribeChanges(t *testing.T) {
	ps := NewPubSub(config.GetDefaultConfig(), logger.NewNopLogger())
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := pubsub.SubscribeChanges(ctx, ps, logger.NewNopLogger())
	require.NoError(t, err)

	// an undecodable message is skipped
	require.NoError(t, ps.Publish(ctx, pubsub.TopicChanges, message.NewMessage(watermill.NewUUID(), []byte("{"))))
	require.NoError(t, pubsub.PublishChange(ctx, ps, pubsub.ChangeEvent{Kind: pubsub.ChangeBrandingUpdated}))

	select {
	case event := <-events:
		assert.Equal(t, pubsub.ChangeBrandingUpdated, event.Kind)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 5*time.Millisecond)
}

func TestPubSub_Closed(t *testing.T) {
	ps := NewPubSub(config.GetDefaultConfig(), logger.NewNopLogger())
	require.NoError(t, ps.Close())
	require.NoError(t, ps.Close())

	err := pubsub.PublishChange(context.Background(), ps, pubsub.ChangeEvent{Kind: pubsub.ChangeBrandingUpdated})
	assert.True(t, ierr.IsInvalidOperation(err))

	_, err = ps.Subscribe(context.Background(), pubsub.TopicChanges)
	assert.True(t, ierr.IsInvalidOperation(err))
}
