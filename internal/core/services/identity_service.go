package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type identityService struct {
	newID func() string
}

func NewIdentityService() ports.IdentityService {
	return &identityService{newID: uuid.NewString}
}

// ResolveAnonymousID returns the id already kept in store, creating and
// storing one the first time. A stored id is never replaced.
func (s *identityService) ResolveAnonymousID(ctx context.Context, store ports.KeyValueStore) (string, error) {
	id, ok, err := store.Get(ctx, ports.AnonymousIDKey)
	if err != nil {
		return "", fmt.Errorf("failed to read anonymous id: %w", err)
	}
	if ok && strings.TrimSpace(id) != "" {
		return id, nil
	}

	id = s.newID()
	if err := store.Set(ctx, ports.AnonymousIDKey, id); err != nil {
		return "", fmt.Errorf("failed to store anonymous id: %w", err)
	}
	return id, nil
}
