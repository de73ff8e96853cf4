package services

import (
	"context"
	"time"

	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type dashboardService struct {
	pollRepo ports.PollRepository
	userRepo ports.UserRepository
	now      func() time.Time
}

func NewDashboardService(pollRepo ports.PollRepository, userRepo ports.UserRepository) ports.DashboardService {
	return &dashboardService{
		pollRepo: pollRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (s *dashboardService) Build(ctx context.Context, admin bool) (*domain.Dashboard, error) {
	var (
		polls []domain.Poll
		users int
		err   error
	)
	if admin {
		polls, err = s.pollRepo.Search(ctx, ports.PollFilter{Active: ports.ActiveFilterAll})
		if err != nil {
			return nil, err
		}
		users, err = s.userRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		polls, err = s.pollRepo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	if !admin {
		polls = domain.OpenPolls(polls, now)
	}
	dashboard := domain.BuildDashboard(polls, users, now)
	return &dashboard, nil
}
