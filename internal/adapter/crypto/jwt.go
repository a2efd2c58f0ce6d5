// Package crypto holds the HMAC token service used to verify
// administrative requests.
package crypto

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/cse-2025.net/internal/config"
	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/domain"
)

var ErrInvalidToken = fmt.Errorf("invalid token")

var _ primary.TokenService = (*TokenServiceImpl)(nil)

// TokenServiceImpl verifies HS256 tokens signed with the shared platform
// secret.
type TokenServiceImpl struct {
	HMACSecretKey string
}

func NewTokenService(jwtConfig *config.JwtConfig) primary.TokenService {
	return &TokenServiceImpl{
		HMACSecretKey: jwtConfig.Secret,
	}
}

// DecodeTokenPayload verifies the token and maps its claims onto the auth
// payload the handlers consume.
func (t *TokenServiceImpl) DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error) {
	var payload domain.AuthPayload

	parsedToken, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return []byte(t.HMACSecretKey), nil
	})
	if err != nil {
		return payload, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return payload, ErrInvalidToken
	}

	// Round-trip through JSON so claim types line up with the payload
	// struct without per-field assertions.
	data, err := json.Marshal(claims)
	if err != nil {
		return payload, fmt.Errorf("failed to marshal token claims: %w", err)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode token payload: %w", err)
	}
	return payload, nil
}
