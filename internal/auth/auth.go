// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth implements credential verification for the admin API and the
// external gateway. Both schemes — bearer JWT and API key — sit behind the
// same Authenticator interface and yield the same Principal, so route logic
// never cares which one authenticated the caller.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"flowsite/internal/models"
)

// ErrUnauthorized is returned when a credential is missing, invalid, or
// belongs to a deactivated user.
var ErrUnauthorized = errors.New("unauthorized")

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   models.Role
}

// IsAdmin returns true if the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Authenticator verifies the credential carried by a request. A nil error
// means the returned Principal is valid; any failure is ErrUnauthorized
// (credential problems are never distinguished to the caller).
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*Principal, error)
}

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx extracts the principal from the request context.
// Returns nil if the request was not authenticated.
func PrincipalFromCtx(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
