package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
)

// DecisionTopic is the default topic for authentication decisions
const DecisionTopic = "x403.auth.decision"

// DecisionEvent is the wire form of core.DecisionEvent
type DecisionEvent struct {
	ID        string `json:"id"`
	Outcome   string `json:"outcome"`
	Status    int    `json:"status"`
	Wallet    string `json:"wallet,omitempty"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Reason    string `json:"reason,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher, topic string) ports.EventPublisher {
	if topic == "" {
		topic = DecisionTopic
	}
	return &WatermillPublisher{
		publisher: publisher,
		topic:     topic,
	}
}

// PublishDecision publishes a decision event
func (p *WatermillPublisher) PublishDecision(ctx context.Context, event core.DecisionEvent) error {
	payload, err := json.Marshal(DecisionEvent{
		ID:        event.ID,
		Outcome:   event.Outcome.String(),
		Status:    event.Outcome.StatusCode(),
		Wallet:    event.Wallet,
		Method:    event.Method,
		Path:      event.Path,
		Reason:    event.Reason,
		Timestamp: event.Timestamp.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("outcome", event.Outcome.String())

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
