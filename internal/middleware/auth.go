package middleware

import (
	"context"
	"net/http"
	"strings"

	"amc-backend/internal/auth"
	"amc-backend/internal/models"
)

type contextKey string

const AdminKey contextKey = "admin"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	admins     *auth.AdminDirectory
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, admins *auth.AdminDirectory) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		admins:     admins,
	}
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		// Accounts removed from config lose access immediately.
		admin, ok := m.admins.Lookup(claims.Email)
		if !ok {
			http.Error(w, "Admin account not found", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
	})
}

// bearerToken reads "Authorization: Bearer <token>". WebSocket clients cannot set
// headers, so upgrade requests may pass ?token= instead.
func bearerToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, true
		}
	}
	return "", false
}

// WithAdmin stores the authenticated admin in ctx.
func WithAdmin(ctx context.Context, admin *models.AdminAccount) context.Context {
	return context.WithValue(ctx, AdminKey, admin)
}

// GetAdminFromContext extracts the authenticated admin from request context
func GetAdminFromContext(ctx context.Context) (*models.AdminAccount, bool) {
	admin, ok := ctx.Value(AdminKey).(*models.AdminAccount)
	return admin, ok
}
