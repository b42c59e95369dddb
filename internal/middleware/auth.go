package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator is implemented by the SSO gRPC client.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uint32, bool, error)
	IsAdmin(ctx context.Context, userID uint32, appID uint32) (bool, error)
}

type AuthMiddleware struct {
	sso   TokenValidator
	appID uint32
	log   *slog.Logger
}

func NewAuthMiddleware(sso TokenValidator, appID uint32, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{sso: sso, appID: appID, log: log}
}

type contextKey string

const UserIDKey = contextKey("userID")

func UserIDFromContext(ctx context.Context) (uint32, bool) {
	id, ok := ctx.Value(UserIDKey).(uint32)
	return id, ok
}

// RequireAdmin lets the request through only for a valid bearer token
// belonging to an administrator of the configured app.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "middleware.auth.RequireAdmin"

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "missing or malformed authorization header", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		userID, valid, err := m.sso.ValidateToken(r.Context(), token)
		if err != nil || !valid {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		isAdmin, err := m.sso.IsAdmin(r.Context(), userID, m.appID)
		if err != nil {
			m.log.Error("failed to check admin rights",
				slog.String("operation", op),
				slog.String("error", err.Error()))
			http.Error(w, "failed to check permissions", http.StatusInternalServerError)
			return
		}
		if !isAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
