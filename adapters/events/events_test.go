package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/layer-3/x403auth/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillPublisher(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, DecisionTopic)
	require.NoError(t, err)

	pub := NewWatermillPublisher(pubSub, "")
	at := time.UnixMilli(1700000000000)
	err = pub.PublishDecision(ctx, core.DecisionEvent{
		ID:        "evt-1",
		Outcome:   core.OutcomeAuthenticationFailure,
		Wallet:    "wallet",
		Method:    "GET",
		Path:      "/api/profile",
		Reason:    "Invalid signature",
		Timestamp: at,
	})
	require.NoError(t, err)

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "evt-1", msg.UUID)
		assert.Equal(t, "authentication_failure", msg.Metadata.Get("outcome"))

		var got DecisionEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, DecisionEvent{
			ID:        "evt-1",
			Outcome:   "authentication_failure",
			Status:    401,
			Wallet:    "wallet",
			Method:    "GET",
			Path:      "/api/profile",
			Reason:    "Invalid signature",
			Timestamp: at.UnixMilli(),
		}, got)
	case <-time.After(time.Second):
		t.Fatal("decision event was not delivered")
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(topic string, messages ...*message.Message) error {
	return errors.New("broker down")
}

func (failingPublisher) Close() error { return nil }

func TestWatermillPublisherError(t *testing.T) {
	pub := NewWatermillPublisher(failingPublisher{}, "custom")
	err := pub.PublishDecision(context.Background(), core.DecisionEvent{ID: "x"})
	assert.ErrorContains(t, err, "failed to publish event")
}

func TestZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.With(watermill.LogFields{"topic": "t"}).Info("published", watermill.LogFields{"n": 1})
	logger.Error("failed", errors.New("boom"), nil)
	logger.Trace("hidden", nil)

	out := buf.String()
	assert.Contains(t, out, `"topic":"t"`)
	assert.Contains(t, out, `"message":"published"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.NotContains(t, out, "hidden")
}
