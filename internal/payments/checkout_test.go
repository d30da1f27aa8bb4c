// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	"flowsite/internal/database"
	"flowsite/internal/mailer"
	"flowsite/internal/models"
	"flowsite/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "flowsite")
	password := envOr("POSTGRES_PASSWORD", "changeme")
	dbname := envOr("POSTGRES_DB", "flowsite")
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Checkout is only for pro templates. A free template must be refused as
// not-found no matter what price it carries, before the payment provider is
// ever contacted.
func TestCreateCheckoutRefusesFreeTemplate(t *testing.T) {
	db := testDB(t)
	templates := store.NewTemplateStore(db)

	tmpl, err := templates.Save(&models.Template{
		Title:       "Checkout Gate Free Template",
		Description: "free despite the price tag",
		IsPro:       false,
		Price:       49.00,
	})
	if err != nil {
		t.Fatalf("save template: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM templates WHERE id = $1", tmpl.ID)
	})

	// The dummy key guarantees any reach into Stripe would fail loudly, so a
	// clean ErrTemplateNotFound proves the gate fired first.
	s := New("sk_test_dummy", testWebhookSecret, "http://localhost:3000",
		templates, nil, mailer.NewLog(), nil)

	_, err = s.CreateCheckout(context.Background(), tmpl.ID, "buyer@example.com")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("free template: got %v, want ErrTemplateNotFound", err)
	}

	_, err = s.CreateCheckout(context.Background(), tmpl.ID+1_000_000, "buyer@example.com")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("missing template: got %v, want ErrTemplateNotFound", err)
	}
}
