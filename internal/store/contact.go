// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"flowsite/internal/models"
)

// ContactStore records inbound contact submissions. Rows are append-only.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore with the given database connection.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

const contactColumns = `id, name, email, message, form_type, ip_address, user_agent, created_at`

func scanContact(row interface{ Scan(...any) error }) (*models.ContactSubmission, error) {
	c := &models.ContactSubmission{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.FormType,
		&c.IPAddress, &c.UserAgent, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new submission and returns it with the generated ID.
func (s *ContactStore) Create(c *models.ContactSubmission) (*models.ContactSubmission, error) {
	formType := c.FormType
	if formType == "" {
		formType = "contact"
	}

	created, err := scanContact(s.db.QueryRow(`
		INSERT INTO contact_submissions (name, email, message, form_type, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contactColumns,
		c.Name, c.Email, c.Message, formType, c.IPAddress, c.UserAgent))
	if err != nil {
		return nil, fmt.Errorf("create contact submission: %w", err)
	}
	return created, nil
}

// List returns all submissions, newest first.
func (s *ContactStore) List() ([]models.ContactSubmission, error) {
	rows, err := s.db.Query(`
		SELECT ` + contactColumns + ` FROM contact_submissions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	defer rows.Close()

	var submissions []models.ContactSubmission
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact submission: %w", err)
		}
		submissions = append(submissions, *c)
	}
	return submissions, rows.Err()
}

// FindByID retrieves a submission. Returns nil if not found.
func (s *ContactStore) FindByID(id int64) (*models.ContactSubmission, error) {
	c, err := scanContact(s.db.QueryRow(
		`SELECT `+contactColumns+` FROM contact_submissions WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact submission: %w", err)
	}
	return c, nil
}
