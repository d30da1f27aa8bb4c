// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// DownloadType records how a template reached the recipient.
type DownloadType string

const (
	DownloadFree      DownloadType = "free"
	DownloadPurchased DownloadType = "purchased"
	DownloadImport    DownloadType = "import"
)

// TemplateDownload is an append-only event linking a template to a
// recipient. One row exists per download or purchase; the template's
// download_count is incremented in the same transaction that inserts it.
type TemplateDownload struct {
	ID         int64        `json:"id"`
	TemplateID int64        `json:"template_id"`
	Email      string       `json:"email"`
	IPAddress  *string      `json:"ip_address,omitempty"`
	Type       DownloadType `json:"download_type"`
	CreatedAt  time.Time    `json:"created_at"`
}
