package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) ports.UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, filter ports.UserFilter) ([]domain.User, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Role = domain.Role(strings.ToUpper(string(filter.Role)))
	switch filter.Role {
	case "", domain.RoleAdmin, domain.RoleUser:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidationRejected, filter.Role)
	}
	return s.repo.List(ctx, filter)
}
