package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
	"github.com/vncsmyrnk/survey/internal/core/services"
)

type stubVerifier struct {
	tokens map[string]ports.TokenClaims
}

func (v stubVerifier) Verify(_ context.Context, token string) (*ports.TokenClaims, error) {
	c, ok := v.tokens[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &c, nil
}

type stubPollService struct {
	ports.PollService
	detail     *ports.PollDetail
	err        error
	lastVoter  *domain.VoterIdentity
	lastFilter ports.PollFilter
	createdBy  *uuid.UUID
}

func (s *stubPollService) GetPoll(_ context.Context, _ string, voter *domain.VoterIdentity) (*ports.PollDetail, error) {
	s.lastVoter = voter
	return s.detail, s.err
}

func (s *stubPollService) ListActive(context.Context) ([]domain.Poll, error) {
	return []domain.Poll{}, s.err
}

func (s *stubPollService) ListForAdmin(_ context.Context, filter ports.PollFilter) ([]domain.Poll, error) {
	s.lastFilter = filter
	return []domain.Poll{}, s.err
}

func (s *stubPollService) Create(_ context.Context, createdBy *uuid.UUID, input ports.CreatePollInput) (*domain.Poll, error) {
	s.createdBy = createdBy
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Poll{ID: uuid.New(), Title: input.Title}, nil
}

func (s *stubPollService) Delete(context.Context, uuid.UUID) error {
	return s.err
}

type stubVoteService struct {
	err    error
	inputs []ports.SubmitResponseInput
}

func (s *stubVoteService) Submit(_ context.Context, input ports.SubmitResponseInput) (*domain.Response, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Response{ID: uuid.New(), PollID: input.PollID, Voter: input.Voter}, nil
}

type stubResultsService struct {
	ports.ResultsService
	results *domain.PollResults
}

func (s *stubResultsService) GetResults(context.Context, uuid.UUID) (*domain.PollResults, error) {
	if s.results == nil {
		return nil, domain.ErrPollNotFound
	}
	return s.results, nil
}

type stubDashboardService struct {
	admin bool
}

func (s *stubDashboardService) Build(_ context.Context, admin bool) (*domain.Dashboard, error) {
	s.admin = admin
	return &domain.Dashboard{}, nil
}

type stubUserService struct {
	ports.UserService
	user *domain.User
}

func (s *stubUserService) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	if s.user == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.user, nil
}

type testServer struct {
	handler   http.Handler
	polls     *stubPollService
	votes     *stubVoteService
	results   *stubResultsService
	dashboard *stubDashboardService
	users     *stubUserService
	logs      *logtest.Hook

	userID  uuid.UUID
	adminID uuid.UUID
}

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

func newTestServer() *testServer {
	logger, hook := logtest.NewNullLogger()
	ts := &testServer{
		polls:     &stubPollService{},
		votes:     &stubVoteService{},
		results:   &stubResultsService{},
		dashboard: &stubDashboardService{},
		users:     &stubUserService{},
		logs:      hook,
		userID:    uuid.New(),
		adminID:   uuid.New(),
	}
	verifier := stubVerifier{tokens: map[string]ports.TokenClaims{
		userToken:  {UserID: ts.userID, Role: domain.RoleUser},
		adminToken: {UserID: ts.adminID, Role: domain.RoleAdmin},
	}}

	ts.handler = NewHandler(Handlers{
		Polls:     NewPollHandler(ts.polls),
		Votes:     NewVoteHandler(ts.votes, services.NewIdentityService(), "", false),
		Results:   NewResultsHandler(ts.results),
		Dashboard: NewDashboardHandler(ts.dashboard),
		Users:     NewUserHandler(ts.users),
	}, verifier, logrus.NewEntry(logger), []string{"https://survey.example.com"})
	return ts
}
