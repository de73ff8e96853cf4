package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   domain.Role
}

// TokenVerifier checks access tokens issued by the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}
