package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Context keys for storing user information
type contextKey string

const (
	// UserIDKey holds the authenticated user's ID in the request context
	UserIDKey contextKey = "user_id"
)

// JWTAuthMiddleware enforces Bearer-token authentication for protected
// routes. The surrounding system issues HS256 session tokens at login
// (wallet-signature flow, not this service's concern); this engine only
// resolves the token to a user ID and trusts it.
type JWTAuthMiddleware struct {
	secret []byte
}

// NewJWTAuthMiddleware creates an auth middleware verifying HS256 tokens
// signed with secret
func NewJWTAuthMiddleware(secret []byte) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{secret: secret}
}

// RequireAuth ensures the request carries a valid token.
// If not authenticated, returns 401. If authenticated, injects the user ID
// into the request context.
func (m *JWTAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.resolve(r)
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or missing token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the user ID if a valid token is present but doesn't
// require one
func (m *JWTAuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.resolve(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolve extracts and verifies the bearer token, returning the subject
func (m *JWTAuthMiddleware) resolve(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("token verification failed: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("token invalid")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("missing subject claim")
	}
	return claims.Subject, nil
}

// GetUserID returns the authenticated user ID from the request context,
// empty when unauthenticated
func GetUserID(r *http.Request) string {
	if v, ok := r.Context().Value(UserIDKey).(string); ok {
		return v
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthenticationRequired",
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode auth error response: %v", err)
	}
}
