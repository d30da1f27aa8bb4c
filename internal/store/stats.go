// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Stats holds the dashboard aggregate counts.
type Stats struct {
	Templates      int `json:"templates"`
	BlogPosts      int `json:"blog_posts"`
	PublishedPosts int `json:"published_posts"`
	Contacts       int `json:"contacts"`
	Downloads      int `json:"downloads"`
}

// StatsStore runs the dashboard aggregate queries.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore creates a new StatsStore with the given database connection.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Dashboard gathers all counts. The queries are independent read-only
// aggregates, so they run concurrently against the pool.
func (s *StatsStore) Dashboard(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int, query string) func() error {
		return func() error {
			if err := s.db.QueryRowContext(ctx, query).Scan(dst); err != nil {
				return fmt.Errorf("stats query: %w", err)
			}
			return nil
		}
	}

	g.Go(count(&stats.Templates, `SELECT COUNT(*) FROM templates`))
	g.Go(count(&stats.BlogPosts, `SELECT COUNT(*) FROM blog_posts`))
	g.Go(count(&stats.PublishedPosts, `SELECT COUNT(*) FROM blog_posts WHERE is_published = TRUE`))
	g.Go(count(&stats.Contacts, `SELECT COUNT(*) FROM contact_submissions`))
	g.Go(count(&stats.Downloads, `SELECT COUNT(*) FROM template_downloads`))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
