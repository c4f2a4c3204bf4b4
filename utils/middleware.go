package utils

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const callerKey contextKey = "authCaller"

// verifyCredential is swapped out in tests.
var verifyCredential = VerifyIDToken

// AuthMiddleware verifies the Authorization bearer token and stores the
// caller identity in the request context. Credential failures all get the
// same 401; an unreachable identity verifier is a backend failure and gets a
// 500 instead.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Missing or invalid credential", http.StatusUnauthorized)
			return
		}

		claims, err := verifyCredential(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			if errors.Is(err, ErrVerifierUnavailable) {
				log.Printf("Identity verification failed: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			http.Error(w, "Missing or invalid credential", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerID returns the authenticated caller's subject id, or "" when the
// request went through no auth middleware.
func CallerID(r *http.Request) string {
	if claims, ok := r.Context().Value(callerKey).(*AuthClaims); ok {
		return claims.UserID
	}
	return ""
}

// Caller returns the full verified identity if present.
func Caller(r *http.Request) (*AuthClaims, bool) {
	claims, ok := r.Context().Value(callerKey).(*AuthClaims)
	return claims, ok
}
