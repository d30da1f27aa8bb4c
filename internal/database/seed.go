package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with first-run data: one admin user, the core
// public settings, and a few sample templates. It is a no-op if users
// already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, "admin@flowsite.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	settings := []struct {
		key, value, typ, desc string
		public                bool
	}{
		{"company_name", "Flowsite Consulting", "string", "Company name shown across the site", true},
		{"contact_email", "hello@flowsite.local", "string", "Public contact address", true},
		{"maintenance_mode", "false", "boolean", "Hide the public site when true", true},
		{"templates_per_page", "12", "number", "Marketplace page size", true},
		{"social_links", `{"github":"","linkedin":""}`, "json", "Footer social links", true},
		{"webhook_alert_email", "ops@flowsite.local", "string", "Internal alert recipient", false},
	}
	for _, s := range settings {
		_, err = db.Exec(`
			INSERT INTO site_settings (key, value, type, is_public, description)
			VALUES ($1, $2, $3, $4, $5)
		`, s.key, s.value, s.typ, s.public, s.desc)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", s.key, err)
		}
	}

	templates := []struct {
		title, desc, category string
		isPro                 bool
		price                 float64
	}{
		{"Lead Capture to CRM", "Sync form submissions into your CRM automatically.", "Sales", false, 0},
		{"Invoice Reminder Flow", "Chase overdue invoices with a polite escalation sequence.", "Finance", true, 29.00},
		{"Daily Report Digest", "Collect metrics from several sources into one morning email.", "Reporting", false, 0},
	}
	for _, t := range templates {
		_, err = db.Exec(`
			INSERT INTO templates (title, description, category, is_pro, price)
			VALUES ($1, $2, $3, $4, $5)
		`, t.title, t.desc, t.category, t.isPro, t.price)
		if err != nil {
			return fmt.Errorf("seed template %s: %w", t.title, err)
		}
	}

	slog.Info("database seeded with default admin user and sample data",
		"email", "admin@flowsite.local",
		"password", "admin",
	)

	return nil
}
