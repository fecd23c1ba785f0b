package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"church-inventory-backend/internal/logger"
	"church-inventory-backend/internal/security"
)

type contextKey string

const (
	actorIDKey   contextKey = "actor_id"
	requestIDKey contextKey = "request_id"
)

// ActorFrom returns the verified actor ID injected by the auth middleware.
func ActorFrom(ctx context.Context) int32 {
	if id, ok := ctx.Value(actorIDKey).(int32); ok {
		return id
	}
	return 0
}

// RequestIDMiddleware tags every request with a UUID for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware verifies the bearer token issued by the identity
// collaborator and injects the actor ID. Authorization decisions are made
// upstream; this core only needs to know who acted.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}
			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Debug("Token verification failed", "error", err)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
				return
			}
			ctx := context.WithValue(r.Context(), actorIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
