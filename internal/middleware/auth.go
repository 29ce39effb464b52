package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"tavolo-order-service/internal/auth"
	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/session"
)

type contextKey string

const authContextKey contextKey = "authContext"

type AuthContext struct {
	Email     string
	SessionID string
	Role      string
}

func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	value := ctx.Value(authContextKey)
	if value == nil {
		return nil, false
	}
	ac, ok := value.(*AuthContext)
	return ac, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   "UNAUTHORIZED",
		"message": message,
	})
}

// Auth verifies the bearer token and requires the session it names to still
// be live in the session store, so revocation takes effect before the token
// expires.
func Auth(sessions *session.Store, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			sess, live := sessions.Get(claims.SessionID)
			if !live || sess.Email != claims.Email {
				writeAuthError(w, http.StatusUnauthorized, "Session expired or revoked")
				return
			}

			authCtx := &AuthContext{Email: claims.Email, SessionID: claims.SessionID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
		})
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, ok := GetAuthContext(r.Context())
			if !ok || authCtx.Role != domain.RoleAdmin {
				writeAuthError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
