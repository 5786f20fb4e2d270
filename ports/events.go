package ports

import (
	"context"

	"github.com/layer-3/x403auth/core"
)

// EventPublisher publishes authentication decisions to interested consumers
type EventPublisher interface {
	PublishDecision(ctx context.Context, event core.DecisionEvent) error
}
