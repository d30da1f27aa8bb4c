// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flowsite/internal/auth"
	"flowsite/internal/handlers"
	"flowsite/internal/payments"
)

// testRouter builds the full route tree with handler groups that carry no
// live dependencies. Only routes that do not reach a store are exercised.
func testRouter() http.Handler {
	jwtAuth := auth.NewJWTAuthenticator("router-test-secret", nil)
	keyAuth := auth.NewAPIKeyAuthenticator(nil)

	public := handlers.NewPublic(nil, nil, nil, nil, nil, nil, nil)
	authH := handlers.NewAuth(nil, jwtAuth)
	admin := handlers.NewAdmin(nil, nil, nil, nil, nil, nil)
	pay := handlers.NewPayments(payments.New("", "", "http://localhost:3000", nil, nil, nil, nil))

	return New(jwtAuth, keyAuth, public, authH, admin, pay, "http://localhost:3000")
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("body: got %q", rr.Body.String())
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r := testRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/stats"},
		{http.MethodGet, "/admin/templates/"},
		{http.MethodGet, "/admin/settings/"},
		{http.MethodPost, "/admin/users/api-key"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", p.method, p.path, rr.Code)
		}
	}
}

func TestGatewayRoutesRequireKey(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/n8n/templates/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", rr.Code)
	}
}

func TestChangePasswordRequiresBearer(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/auth/change-password",
		strings.NewReader(`{"currentPassword":"a","newPassword":"b"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", rr.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/templates", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin: got %q", got)
	}
}
