package primary

import (
	"context"

	"gitlab.com/cse-2025.net/internal/domain"
)

// TokenService verifies administrative tokens minted by the surrounding
// platform. The engine never issues credentials, so the port carries only
// the decode surface the middleware consumes.
type TokenService interface {
	DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error)
}
