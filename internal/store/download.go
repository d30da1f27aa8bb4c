// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"flowsite/internal/models"
)

// DownloadStore records template download and purchase events.
type DownloadStore struct {
	db *sql.DB
}

// NewDownloadStore creates a new DownloadStore with the given database connection.
func NewDownloadStore(db *sql.DB) *DownloadStore {
	return &DownloadStore{db: db}
}

// Record appends a download event and increments the template's
// download_count inside one transaction, so a crash can never produce a
// counted download without its event row or vice versa. Notification email
// is the caller's concern and happens only after this commits.
func (s *DownloadStore) Record(templateID int64, email string, ipAddress *string, typ models.DownloadType) (*models.TemplateDownload, error) {
	if typ == "" {
		typ = models.DownloadFree
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	d := &models.TemplateDownload{}
	err = tx.QueryRow(`
		INSERT INTO template_downloads (template_id, email, ip_address, download_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, template_id, email, ip_address, download_type, created_at
	`, templateID, email, ipAddress, typ).Scan(
		&d.ID, &d.TemplateID, &d.Email, &d.IPAddress, &d.Type, &d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert download: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE templates SET download_count = download_count + 1 WHERE id = $1
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("increment download count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return d, nil
}

// ListByTemplate returns all download events for one template, newest first.
func (s *DownloadStore) ListByTemplate(templateID int64) ([]models.TemplateDownload, error) {
	rows, err := s.db.Query(`
		SELECT id, template_id, email, ip_address, download_type, created_at
		FROM template_downloads
		WHERE template_id = $1
		ORDER BY created_at DESC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()

	var downloads []models.TemplateDownload
	for rows.Next() {
		var d models.TemplateDownload
		if err := rows.Scan(&d.ID, &d.TemplateID, &d.Email, &d.IPAddress, &d.Type, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		downloads = append(downloads, d)
	}
	return downloads, rows.Err()
}
