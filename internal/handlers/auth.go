package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"flowsite/internal/auth"
	"flowsite/internal/store"
)

// Auth groups the authentication handlers: login, password change, and API
// key regeneration.
type Auth struct {
	users *store.UserStore
	jwt   *auth.JWTAuthenticator
}

// NewAuth creates the auth handler group.
func NewAuth(users *store.UserStore, jwt *auth.JWTAuthenticator) *Auth {
	return &Auth{users: users, jwt: jwt}
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a signed bearer token plus the
// user. Wrong email, wrong password, and a deactivated account all produce
// the same 401.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		serverError(w, "login lookup failed", err)
		return
	}
	if user == nil || !user.IsActive || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := a.jwt.Issue(user)
	if err != nil {
		serverError(w, "token issue failed", err)
		return
	}

	if err := a.users.TouchLastLogin(user.ID); err != nil {
		slog.Warn("last login stamp failed", "user_id", user.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// changePasswordRequest is the POST /auth/change-password body.
type changePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword replaces a password after proof of the current one. A
// principal may only change their own password unless they are an admin.
func (a *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromCtx(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}

	target := principal.UserID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		if id != principal.UserID && !principal.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		target = id
	}

	if err := a.users.ChangePassword(target, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, store.ErrWrongPassword) {
			writeError(w, http.StatusUnauthorized, "current password does not match")
			return
		}
		serverError(w, "change password failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// RegenerateAPIKey issues a fresh gateway key for the authenticated
// principal, invalidating the previous one immediately.
func (a *Auth) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromCtx(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	key, err := a.users.RegenerateAPIKey(principal.UserID)
	if err != nil {
		serverError(w, "api key regeneration failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"apiKey": key})
}
