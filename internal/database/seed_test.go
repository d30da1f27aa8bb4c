// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "flowsite")
	password := envOr("POSTGRES_PASSWORD", "changeme")
	dbname := envOr("POSTGRES_DB", "flowsite")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// Seed must populate a completely empty database so a fresh deployment has a
// working admin login, and must be a no-op on every startup after that.
func TestSeedFirstRun(t *testing.T) {
	db := testDB(t)

	// Simulate a first run. Restore is best effort: the seed rows themselves
	// are removed in cleanup so other tests see a clean slate.
	for _, table := range []string{"template_downloads", "users", "site_settings", "templates"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("empty %s: %v", table, err)
		}
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE email = 'admin@flowsite.local'")
		db.Exec("DELETE FROM site_settings")
		db.Exec("DELETE FROM templates")
	})

	if err := Seed(db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if n := countRows(t, db,
		"SELECT COUNT(*) FROM users WHERE email = $1 AND role = 'admin' AND is_active",
		"admin@flowsite.local"); n != 1 {
		t.Errorf("admin users after seed = %d, want 1", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM site_settings WHERE is_public"); n == 0 {
		t.Error("seed created no public settings")
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM templates"); n == 0 {
		t.Error("seed created no sample templates")
	}

	// Second run sees existing users and must change nothing.
	before := countRows(t, db, "SELECT COUNT(*) FROM users")
	if err := Seed(db); err != nil {
		t.Fatalf("Seed rerun: %v", err)
	}
	if after := countRows(t, db, "SELECT COUNT(*) FROM users"); after != before {
		t.Errorf("rerun changed user count: %d -> %d", before, after)
	}
}
