package pubsub

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	jsoniter "github.com/json-iterator/go"
	ierr "github.com/printstudio/docengine/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TopicChanges carries every template and branding change
const TopicChanges = "docengine.changes"

// ChangeKind names what happened to a stored record
type ChangeKind string

const (
	ChangeTemplateUpserted   ChangeKind = "template.upserted"
	ChangeTemplateDeleted    ChangeKind = "template.deleted"
	ChangeTemplatesRefreshed ChangeKind = "templates.refreshed"
	ChangeBrandingUpdated    ChangeKind = "branding.updated"
)

// ChangeEvent is the payload of a change notification. Views re-read the
// record rather than trusting the payload.
type ChangeEvent struct {
	Kind       ChangeKind `json:"kind"`
	TemplateID string     `json:"templateId,omitempty"`
	At         time.Time  `json:"at"`
}

// NewChangeMessage wraps an event into a watermill message
func NewChangeMessage(event ChangeEvent) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode change event").
			Mark(ierr.ErrSystem)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("kind", string(event.Kind))
	return msg, nil
}

// DecodeChange reads the event carried by msg
func DecodeChange(msg *message.Message) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return ChangeEvent{}, ierr.WithError(err).
			WithHint("Failed to decode change event").
			Mark(ierr.ErrValidation)
	}
	return event, nil
}

// PublishChange encodes and publishes event on TopicChanges
func PublishChange(ctx context.Context, p Publisher, event ChangeEvent) error {
	if p == nil {
		return nil
	}
	msg, err := NewChangeMessage(event)
	if err != nil {
		return err
	}
	return p.Publish(ctx, TopicChanges, msg)
}
