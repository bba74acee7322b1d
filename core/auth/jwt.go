package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tokenTTL = 24 * time.Hour

// ErrTokenRevoked is returned when a token's jti is on the denylist.
var ErrTokenRevoked = errors.New("token has been revoked")

// Claims is the credential token payload. Email and Name ride along so a
// degraded session can still be synthesized from the token alone when the
// user store is unreachable.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs, parses, and revokes credential tokens. Revocation is a
// Redis denylist keyed by jti; a nil Redis client disables it (tokens then
// simply expire).
type TokenManager struct {
	secret []byte
	redis  *redis.Client
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret string, redisClient *redis.Client) *TokenManager {
	return &TokenManager{secret: []byte(secret), redis: redisClient}
}

// Issue signs a token for a credential.
func (m *TokenManager) Issue(credentialID, email, displayName string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Name:  displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   credentialID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Parse validates a token and returns its claims, rejecting revoked tokens.
func (m *TokenManager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	if m.redis != nil && claims.ID != "" {
		revoked, err := m.redis.Exists(ctx, denylistKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return nil, ErrTokenRevoked
		}
		// A denylist read failure is not grounds to reject a signed token.
	}

	return claims, nil
}

// Revoke denylists a token until its natural expiry.
func (m *TokenManager) Revoke(ctx context.Context, tokenString string) error {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse token for revocation: %w", err)
	}
	if m.redis == nil || claims.ID == "" {
		return nil
	}

	ttl := tokenTTL
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := m.redis.Set(ctx, denylistKey(claims.ID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to denylist token: %w", err)
	}
	return nil
}

func denylistKey(jti string) string {
	return "auth:revoked:" + jti
}
