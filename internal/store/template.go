// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"flowsite/internal/models"
)

// TemplateStore handles all template-related database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, title, description, category, is_pro, price, workflow_data,
		tutorial_link, icon_name, download_count, rating, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (*models.Template, error) {
	t := &models.Template{}
	var workflow []byte
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Category, &t.IsPro, &t.Price,
		&workflow, &t.TutorialLink, &t.IconName, &t.DownloadCount, &t.Rating,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.WorkflowData = json.RawMessage(workflow)
	return t, nil
}

// List returns all templates as public summaries, without the workflow
// payload. The full payload is only served on the detail endpoint.
func (s *TemplateStore) List() ([]models.TemplateSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, category, is_pro, price,
		       tutorial_link, icon_name, download_count, rating, created_at
		FROM templates
		ORDER BY download_count DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.TemplateSummary
	for rows.Next() {
		var t models.TemplateSummary
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Category, &t.IsPro, &t.Price,
			&t.TutorialLink, &t.IconName, &t.DownloadCount, &t.Rating, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template with its workflow payload. Returns nil if not found.
func (s *TemplateStore) FindByID(id int64) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRow(
		`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// Save inserts the template when its ID is zero and updates it otherwise.
// An absent workflow payload is replaced by the default empty graph — the
// column is mandatory and never holds null.
func (s *TemplateStore) Save(t *models.Template) (*models.Template, error) {
	workflow := t.WorkflowData
	if len(workflow) == 0 {
		workflow = json.RawMessage(models.DefaultWorkflowData)
	}
	category := t.Category
	if category == "" {
		category = "General"
	}

	if t.ID == 0 {
		saved, err := scanTemplate(s.db.QueryRow(`
			INSERT INTO templates (title, description, category, is_pro, price,
			                       workflow_data, tutorial_link, icon_name, rating)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+templateColumns,
			t.Title, t.Description, category, t.IsPro, t.Price,
			[]byte(workflow), t.TutorialLink, t.IconName, t.Rating))
		if err != nil {
			return nil, fmt.Errorf("create template: %w", err)
		}
		return saved, nil
	}

	saved, err := scanTemplate(s.db.QueryRow(`
		UPDATE templates SET
			title = $1, description = $2, category = $3, is_pro = $4, price = $5,
			workflow_data = $6, tutorial_link = $7, icon_name = $8, rating = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING `+templateColumns,
		t.Title, t.Description, category, t.IsPro, t.Price,
		[]byte(workflow), t.TutorialLink, t.IconName, t.Rating, t.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return saved, nil
}

// Delete removes a template by ID. Download events cascade with it.
func (s *TemplateStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
