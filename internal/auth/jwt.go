// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"flowsite/internal/models"
	"flowsite/internal/store"
)

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 24 * time.Hour

// claims is the JWT payload for issued tokens.
type claims struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthenticator verifies HS256 bearer tokens and re-checks the user's
// active flag on every request, so deactivation takes effect before the
// token expires.
type JWTAuthenticator struct {
	secret []byte
	users  *store.UserStore
}

// NewJWTAuthenticator creates a JWT authenticator with the given signing secret.
func NewJWTAuthenticator(secret string, users *store.UserStore) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret), users: users}
}

// Issue signs a new token for the user.
func (a *JWTAuthenticator) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies the Authorization bearer token and resolves it to
// an active user.
func (a *JWTAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*Principal, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, ErrUnauthorized
	}

	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := a.users.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}

	return &Principal{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
