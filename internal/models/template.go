// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// DefaultWorkflowData is the empty-graph payload persisted when a template
// is saved without workflow data. The workflow column is NOT NULL, so a
// template always carries a structurally valid (possibly empty) graph.
const DefaultWorkflowData = `{"nodes":[],"connections":{}}`

// Template is a purchasable or free automation blueprint.
type Template struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	IsPro         bool            `json:"is_pro"`
	Price         float64         `json:"price"`
	WorkflowData  json.RawMessage `json:"workflow_data"`
	TutorialLink  *string         `json:"tutorial_link,omitempty"`
	IconName      *string         `json:"icon_name,omitempty"`
	DownloadCount int             `json:"download_count"`
	Rating        float64         `json:"rating"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TemplateSummary is the public listing projection: everything except the
// raw workflow payload, which is only served by the detail endpoint.
type TemplateSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	IsPro         bool      `json:"is_pro"`
	Price         float64   `json:"price"`
	TutorialLink  *string   `json:"tutorial_link,omitempty"`
	IconName      *string   `json:"icon_name,omitempty"`
	DownloadCount int       `json:"download_count"`
	Rating        float64   `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
}
