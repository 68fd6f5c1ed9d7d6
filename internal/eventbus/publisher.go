// Package eventbus carries project events over a gocloud.dev pubsub topic and
// drains them into the project history.
package eventbus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/rpggio/bidboard/internal/domain/project"
	"gocloud.dev/pubsub"
)

// Metadata keys set on every published message.
const (
	MetaOwner     = "owner"
	MetaProjectID = "project_id"
	MetaType      = "type"
)

// Publisher sends project events to a topic.
type Publisher struct {
	topic *pubsub.Topic
	enc   cbor.EncMode
}

// NewPublisher creates a Publisher on topic.
func NewPublisher(topic *pubsub.Topic) (*Publisher, error) {
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	return &Publisher{topic: topic, enc: enc}, nil
}

// Publish encodes event and sends it.
func (p *Publisher) Publish(ctx context.Context, event project.Event) error {
	body, err := p.enc.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	err = p.topic.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			MetaOwner:     event.Owner,
			MetaProjectID: strconv.FormatInt(event.Project.ID, 10),
			MetaType:      string(event.Type),
		},
	})
	if err != nil {
		return fmt.Errorf("send event: %w", err)
	}
	return nil
}

// Decode parses a message body produced by Publish.
func Decode(body []byte) (project.Event, error) {
	var event project.Event
	if err := cbor.Unmarshal(body, &event); err != nil {
		return project.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if event.Owner == "" || event.Type == "" {
		return project.Event{}, fmt.Errorf("decode event: missing owner or type")
	}
	return event, nil
}
