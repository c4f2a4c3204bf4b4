package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

// ErrUnauthenticated is the single error surfaced for every credential
// failure; callers must not learn whether a token was missing, expired or
// malformed.
var ErrUnauthenticated = errors.New("invalid or expired credential")

// ErrVerifierUnavailable means the identity provider's key set could not be
// reached or configured. This is a backend failure, not a bad credential.
var ErrVerifierUnavailable = errors.New("identity verifier unavailable")

// AuthClaims is the caller identity extracted from a verified bearer token.
type AuthClaims struct {
	UserID string
	Email  string
}

var (
	jwksOnce sync.Once
	jwks     *keyfunc.JWKS
	jwksErr  error
)

func identityJWKS() (*keyfunc.JWKS, error) {
	jwksOnce.Do(func() {
		jwksURL := os.Getenv("AUTH_JWKS_URL")
		if jwksURL == "" {
			jwksErr = errors.New("AUTH_JWKS_URL is not set")
			return
		}
		jwks, jwksErr = keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:  time.Hour,
			RefreshRateLimit: time.Minute,
			RefreshErrorHandler: func(err error) {
				log.Printf("JWKS refresh failed: %v", err)
			},
		})
	})
	return jwks, jwksErr
}

// VerifyIDToken validates a bearer credential against the identity provider's
// JWKS and returns the caller identity. The JWKS.Keyfunc method selects the
// key with the matching kid and returns its public key to the parser.
func VerifyIDToken(idToken string) (*AuthClaims, error) {
	keys, err := identityJWKS()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	}

	token, err := jwt.Parse(idToken, keys.Keyfunc)
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrUnauthenticated
	}
	email, _ := claims["email"].(string)

	return &AuthClaims{UserID: sub, Email: email}, nil
}
