package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/domain"
)

type contextKey string

// AuthPayloadKey carries the decoded token payload through the request
// context.
const AuthPayloadKey contextKey = "authPayload"

type MiddlewareProvider struct {
	tokenService primary.TokenService
}

func New(tokenService primary.TokenService) *MiddlewareProvider {
	return &MiddlewareProvider{
		tokenService: tokenService,
	}
}

// JWTMiddleware verifies the bearer token and stores its payload on the
// request context.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		payload, err := m.tokenService.DecodeTokenPayload(r.Context(), tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AuthPayloadKey, payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware rejects requests whose token lacks the admin role. It
// must run after JWTMiddleware.
func (m *MiddlewareProvider) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := PayloadFromContext(r.Context())
		if !ok || !payload.IsAdmin() {
			http.Error(w, "Admin privileges required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PayloadFromContext reads the decoded token payload, if any.
func PayloadFromContext(ctx context.Context) (domain.AuthPayload, bool) {
	payload, ok := ctx.Value(AuthPayloadKey).(domain.AuthPayload)
	return payload, ok
}
