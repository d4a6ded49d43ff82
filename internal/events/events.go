// Package events publishes asset lifecycle notifications to an
// optional message broker. Publishing is fire-and-forget: a broker
// failure is logged and never fails the user operation that produced
// the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/assettrack/apiserver/internal/logger"
	"go.uber.org/zap"
)

// Event kinds.
const (
	AssetCreated = "asset.created"
	AssetMoved   = "asset.moved"
	AssetDeleted = "asset.deleted"
)

// Event is the JSON payload published for asset lifecycle changes.
type Event struct {
	Kind         string    `json:"kind"`
	AssetCode    string    `json:"asset_code"`
	FromLocation string    `json:"from_location,omitempty"`
	ToLocation   string    `json:"to_location,omitempty"`
	Actor        string    `json:"actor,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Backend defines the broker operations the publisher needs.
type Backend interface {
	Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher sends events to a configured topic. A nil Publisher is
// valid and publishes nothing.
type Publisher struct {
	backend Backend
	topic   string
}

// NewPublisher constructs a Publisher over the provided backend.
func NewPublisher(backend Backend, topic string) *Publisher {
	return &Publisher{backend: backend, topic: topic}
}

// Publish marshals and sends the event. Failures are logged, not
// returned.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil || p.backend == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Get().Error("marshal event", zap.String("kind", event.Kind), zap.Error(err))
		return
	}

	attrs := map[string]string{"kind": event.Kind}
	if _, err := p.backend.Publish(ctx, p.topic, data, attrs); err != nil {
		logger.Get().Error("publish event",
			zap.String("kind", event.Kind),
			zap.String("asset_code", event.AssetCode),
			zap.Error(err),
		)
	}
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	if p == nil || p.backend == nil {
		return nil
	}
	return p.backend.Close()
}
