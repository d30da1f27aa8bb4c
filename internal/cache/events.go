// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// events.go deduplicates payment-provider webhook deliveries. The provider
// retries events at-least-once, so the same completed checkout can arrive
// more than once; claiming the event ID with SETNX before fulfillment makes
// recording effectively once per event. If Valkey is unavailable the claim
// fails open and the event processes anyway — at-least-once is the floor,
// dedup is best effort.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	eventKeyPrefix = "webhook:event:"

	// DefaultEventTTL is how long a claimed event ID is remembered.
	// Provider retry windows are measured in hours, not days.
	DefaultEventTTL = 24 * time.Hour
)

// EventDedup tracks processed webhook event IDs in Valkey.
type EventDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventDedup creates an event dedup store backed by the given Valkey client.
func NewEventDedup(client *redis.Client, ttl time.Duration) *EventDedup {
	if ttl == 0 {
		ttl = DefaultEventTTL
	}
	return &EventDedup{client: client, ttl: ttl}
}

// Claim attempts to mark the event ID as processed. Returns true when this
// delivery is the first one and fulfillment should proceed; false when the
// event was already handled.
func (d *EventDedup) Claim(ctx context.Context, eventID string) bool {
	ok, err := d.client.SetNX(ctx, eventKeyPrefix+eventID, 1, d.ttl).Result()
	if err != nil {
		slog.Warn("event dedup unavailable, processing anyway", "event_id", eventID, "error", err)
		return true
	}
	if !ok {
		slog.Info("duplicate webhook event skipped", "event_id", eventID)
	}
	return ok
}

// Release forgets a claimed event so a retry can process it. Called when
// fulfillment fails after the claim succeeded.
func (d *EventDedup) Release(ctx context.Context, eventID string) {
	if err := d.client.Del(ctx, eventKeyPrefix+eventID).Err(); err != nil {
		slog.Warn("event dedup release error", "event_id", eventID, "error", err)
	}
}
