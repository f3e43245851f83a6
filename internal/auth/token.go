package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/dinehub/orderflow/internal/models"
)

const tokenDuration = 24 * time.Hour

var ErrInvalidToken = errors.New("token is invalid")

type actorClaims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
	ActorID  string `json:"actor_id"`
	Role     string `json:"role"`
}

// AuthToken signs and verifies staff tokens
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance with signing key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

// CreateToken issues signed token for tenant actor
func (at *AuthToken) CreateToken(payload models.ActorPayload) (string, error) {
	now := time.Now()
	claims := actorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		},
		TenantID: payload.TenantID,
		ActorID:  payload.ActorID,
		Role:     payload.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(at.key)
}

// VerifyToken parses and validates token string
func (at *AuthToken) VerifyToken(tokenString string) (*models.ActorPayload, error) {
	claims := actorClaims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return at.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.ActorPayload{
		TenantID: claims.TenantID,
		ActorID:  claims.ActorID,
		Role:     claims.Role,
	}, nil
}
