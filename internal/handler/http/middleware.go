package handler

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dinehub/orderflow/internal/models"
)

type contextKey string

const (
	authPayloadKey contextKey = "auth_payload"
)

const gatewaySecretHeader = "X-Gateway-Secret"

// TokenService verifies staff tokens
type TokenService interface {
	VerifyToken(tokenString string) (*models.ActorPayload, error)
}

// AuthMiddleware gets the token from the cookie and passes its payload to the context
func AuthMiddleware(ts TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				http.Error(w, "can not get cookie", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(cookie.Value)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GatewayMiddleware admits only the payment collaborator, which must present
// the shared secret in a header. The configured value is a bcrypt hash.
func GatewayMiddleware(secretHash string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := r.Header.Get(gatewaySecretHeader)
			if secret == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)); err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getAuthPayload extracts actor token payload from context
func getAuthPayload(ctx context.Context, key contextKey) (*models.ActorPayload, bool) {
	payload, ok := ctx.Value(key).(*models.ActorPayload)
	return payload, ok
}
