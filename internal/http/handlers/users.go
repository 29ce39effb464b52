package handlers

import (
	"net/http"
	"strings"
	"time"

	"tavolo-order-service/internal/auth"
	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/middleware"
	"tavolo-order-service/pkg/response"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Valid email required")
		return
	}
	if len(req.Password) < 8 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Logger.Error("password hash failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Registration failed")
		return
	}

	user := domain.User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		Region:       defaultString(req.Region, domain.UnknownRegion),
		Role:         domain.RoleCustomer,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "user", "created", user.Email)

	response.Created(w, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		return
	}

	sess := h.Sessions.Create(user.Email, user.Role)
	token, err := auth.IssueAccessToken(user.Email, sess.ID, user.Role, h.Config.JWTSecret, sess.ExpiresAt)
	if err != nil {
		h.Logger.Error("token issue failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}

	response.Success(w, map[string]any{
		"token":     token,
		"expiresAt": sess.ExpiresAt,
		"user":      user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		return
	}
	h.Sessions.Revoke(authCtx.SessionID)
	response.Success(w, map[string]any{"loggedOut": true})
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		h.Logger.Error("users list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	response.Success(w, users)
}
