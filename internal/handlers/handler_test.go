// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// cache-backed behavior degrades gracefully without Valkey.
package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"flowsite/internal/auth"
	"flowsite/internal/cache"
	"flowsite/internal/database"
	"flowsite/internal/mailer"
	"flowsite/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "flowsite")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "flowsite")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	db            *sql.DB
	users         *store.UserStore
	public        *Public
	auth          *Auth
	admin         *Admin
	jwtAuth       *auth.JWTAuthenticator
	settingsCache *cache.SettingsCache
}

// newTestEnv wires handler groups against the test database. The settings
// cache points at the test Valkey DB when reachable; cache errors degrade
// to database reads either way.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testDB(t)

	valkey := redis.NewClient(&redis.Options{
		Addr:        envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password:    os.Getenv("VALKEY_PASSWORD"),
		DB:          15,
		DialTimeout: 2 * time.Second,
	})
	t.Cleanup(func() { valkey.Close() })

	users := store.NewUserStore(db)
	templates := store.NewTemplateStore(db)
	blog := store.NewBlogStore(db)
	contacts := store.NewContactStore(db)
	downloads := store.NewDownloadStore(db)
	settings := store.NewSettingStore(db)
	stats := store.NewStatsStore(db)
	settingsCache := cache.NewSettingsCache(valkey, time.Minute)
	mail := mailer.NewLog()

	jwtAuth := auth.NewJWTAuthenticator("handler-test-secret", users)

	return &testEnv{
		db:            db,
		users:         users,
		public:        NewPublic(templates, blog, contacts, downloads, settings, settingsCache, mail),
		auth:          NewAuth(users, jwtAuth),
		admin:         NewAdmin(templates, blog, contacts, settings, stats, settingsCache),
		jwtAuth:       jwtAuth,
		settingsCache: settingsCache,
	}
}

// decodeResponse unmarshals a recorded JSON body into dst.
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}
