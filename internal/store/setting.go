// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"flowsite/internal/models"
)

// SettingStore manages typed site configuration in the database. Values are
// stored as text and encoded/decoded according to their declared type tag.
type SettingStore struct {
	db *sql.DB
}

// NewSettingStore returns a new SettingStore backed by the given database.
func NewSettingStore(db *sql.DB) *SettingStore {
	return &SettingStore{db: db}
}

const settingColumns = `key, value, type, is_public, description, updated_at`

func scanSetting(row interface{ Scan(...any) error }) (*models.SiteSetting, error) {
	s := &models.SiteSetting{}
	err := row.Scan(&s.Key, &s.Value, &s.Type, &s.IsPublic, &s.Description, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// PublicMap returns every public setting decoded to its typed value,
// keyed by setting key. Private settings never appear in the result.
func (s *SettingStore) PublicMap() (map[string]any, error) {
	rows, err := s.db.Query(`
		SELECT ` + settingColumns + `
		FROM site_settings WHERE is_public = TRUE ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("public settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]any)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[setting.Key] = setting.DecodedValue()
	}
	return out, rows.Err()
}

// All returns every setting row, including private ones. Callers must gate
// access: this is an administrative read.
func (s *SettingStore) All() ([]models.SiteSetting, error) {
	rows, err := s.db.Query(`SELECT ` + settingColumns + ` FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []models.SiteSetting
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings = append(settings, *setting)
	}
	return settings, rows.Err()
}

// FindByKey retrieves a single setting by key. Returns nil if not found.
func (s *SettingStore) FindByKey(key string) (*models.SiteSetting, error) {
	setting, err := scanSetting(s.db.QueryRow(
		`SELECT `+settingColumns+` FROM site_settings WHERE key = $1`, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find setting: %w", err)
	}
	return setting, nil
}

// Upsert encodes value according to its type tag and inserts or updates the
// row by key, refreshing updated_at. Repeated upserts with identical inputs
// leave the stored row content unchanged.
func (s *SettingStore) Upsert(key string, value any, typ models.SettingType, isPublic bool, description *string) (*models.SiteSetting, error) {
	raw, err := models.EncodeSetting(typ, value)
	if err != nil {
		return nil, fmt.Errorf("encode setting %s: %w", key, err)
	}

	setting, err := scanSetting(s.db.QueryRow(`
		INSERT INTO site_settings (key, value, type, is_public, description, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type,
		              is_public = EXCLUDED.is_public, description = EXCLUDED.description,
		              updated_at = EXCLUDED.updated_at
		RETURNING `+settingColumns,
		key, raw, typ, isPublic, description, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return setting, nil
}

// SettingWrite is one entry of a bulk settings update.
type SettingWrite struct {
	Key         string             `json:"key"`
	Value       any                `json:"value"`
	Type        models.SettingType `json:"type"`
	IsPublic    bool               `json:"is_public"`
	Description *string            `json:"description,omitempty"`
}

// BulkUpsert applies every write in a single transaction: one failure rolls
// back the whole batch. Entries without a key are skipped before the
// transaction starts.
func (s *SettingStore) BulkUpsert(writes []SettingWrite) ([]models.SiteSetting, error) {
	valid := writes[:0]
	for _, w := range writes {
		if w.Key != "" {
			valid = append(valid, w)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO site_settings (key, value, type, is_public, description, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type,
		              is_public = EXCLUDED.is_public, description = EXCLUDED.description,
		              updated_at = EXCLUDED.updated_at
		RETURNING ` + settingColumns)
	if err != nil {
		return nil, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	results := make([]models.SiteSetting, 0, len(valid))
	for _, w := range valid {
		typ := w.Type
		if typ == "" {
			typ = models.SettingString
		}
		raw, err := models.EncodeSetting(typ, w.Value)
		if err != nil {
			return nil, fmt.Errorf("encode setting %s: %w", w.Key, err)
		}
		setting, err := scanSetting(stmt.QueryRow(w.Key, raw, typ, w.IsPublic, w.Description, now))
		if err != nil {
			return nil, fmt.Errorf("upsert setting %s: %w", w.Key, err)
		}
		results = append(results, *setting)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return results, nil
}

// Delete removes a setting row entirely. Returns the deleted row, or nil if
// the key did not exist.
func (s *SettingStore) Delete(key string) (*models.SiteSetting, error) {
	setting, err := scanSetting(s.db.QueryRow(
		`DELETE FROM site_settings WHERE key = $1 RETURNING `+settingColumns, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete setting: %w", err)
	}
	return setting, nil
}
