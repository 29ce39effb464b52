package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Record-change events published by the write handlers. Routing keys follow
// "record.<collection>.<action>", e.g. record.order.created.
const (
	EventsExchange   = "tavolo.events"
	InvalidateQueue  = "tavolo.dashboard.invalidate"
	RecordRoutingKey = "record.#"
)

type RecordEvent struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	RecordID   string    `json:"recordId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher is what the write path needs; the nil client degrades to a
// no-op so the service runs without a broker in development.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) RecordChanged(ctx context.Context, collection, action, recordID string) error {
	if p == nil || p.client == nil {
		return nil
	}
	event := RecordEvent{
		Collection: collection,
		Action:     action,
		RecordID:   recordID,
		OccurredAt: time.Now(),
	}
	routingKey := fmt.Sprintf("record.%s.%s", collection, action)
	return p.client.PublishJSON(ctx, EventsExchange, routingKey, event)
}

// EnsureInvalidationTopology declares the exchange, queue and binding the
// invalidation worker consumes from.
func EnsureInvalidationTopology(client *Client) error {
	if err := client.EnsureExchange(EventsExchange); err != nil {
		return err
	}
	if _, err := client.EnsureQueue(InvalidateQueue); err != nil {
		return err
	}
	// '#' matches both segments of record.<collection>.<action>.
	return client.BindQueue(InvalidateQueue, EventsExchange, RecordRoutingKey)
}

type Invalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// ProcessRecordEvent translates one record-change event into a report-cache
// invalidation. Malformed payloads are dropped, not retried.
func ProcessRecordEvent(ctx context.Context, inv Invalidator, cacheKey string, body []byte) error {
	var event RecordEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil
	}
	return inv.Invalidate(ctx, cacheKey)
}
