// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// settings.go caches the decoded public settings map in Valkey. The public
// settings endpoint is hit on every page load of the web client, while
// settings change rarely; a short TTL plus write-through invalidation keeps
// the map fresh without a DB round trip per request.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	settingsKey = "settings:public"

	// DefaultSettingsTTL bounds staleness if an invalidation is missed.
	DefaultSettingsTTL = 5 * time.Minute
)

// SettingsCache holds the decoded public settings map in Valkey.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSettingsCache creates a settings cache backed by the given Valkey client.
func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	if ttl == 0 {
		ttl = DefaultSettingsTTL
	}
	return &SettingsCache{client: client, ttl: ttl}
}

// Get retrieves the cached map. Returns nil, false on miss or any error —
// the caller falls through to the database.
func (c *SettingsCache) Get(ctx context.Context) (map[string]any, bool) {
	payload, err := c.client.Get(ctx, settingsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("settings cache get error", "error", err)
		return nil, false
	}

	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		slog.Warn("settings cache decode error", "error", err)
		return nil, false
	}
	return m, true
}

// Set stores the decoded map with the configured TTL.
func (c *SettingsCache) Set(ctx context.Context, m map[string]any) {
	payload, err := json.Marshal(m)
	if err != nil {
		slog.Warn("settings cache encode error", "error", err)
		return
	}
	if err := c.client.Set(ctx, settingsKey, payload, c.ttl).Err(); err != nil {
		slog.Warn("settings cache set error", "error", err)
	}
}

// Invalidate drops the cached map. Called after every settings write.
func (c *SettingsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, settingsKey).Err(); err != nil {
		slog.Warn("settings cache invalidate error", "error", err)
	}
}
