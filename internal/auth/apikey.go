// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"net/http"

	"flowsite/internal/store"
)

// APIKeyHeader is the primary header the gateway reads the key from. A
// bearer token is accepted as a fallback for tools that only speak
// Authorization headers.
const APIKeyHeader = "X-API-Key"

// APIKeyAuthenticator resolves an opaque API key to its active user. Keys
// are regenerable; resolving always hits the current stored key, so a
// replaced key stops working immediately.
type APIKeyAuthenticator struct {
	users *store.UserStore
}

// NewAPIKeyAuthenticator creates an API key authenticator.
func NewAPIKeyAuthenticator(users *store.UserStore) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{users: users}
}

// Authenticate reads the API key from the request and resolves it to an
// active user.
func (a *APIKeyAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*Principal, error) {
	key := r.Header.Get(APIKeyHeader)
	if key == "" {
		key = bearerToken(r)
	}
	if key == "" {
		return nil, ErrUnauthorized
	}

	user, err := a.users.FindByAPIKey(key)
	if err != nil {
		return nil, fmt.Errorf("resolve api key: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}

	return &Principal{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}
