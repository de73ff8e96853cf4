package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

func nullLogger() (*logrus.Entry, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

type fakePollRepo struct {
	mu    sync.Mutex
	polls map[uuid.UUID]domain.Poll
	err   error

	replacedQuestions bool
	lastFilter        ports.PollFilter
}

func newFakePollRepo(polls ...*domain.Poll) *fakePollRepo {
	r := &fakePollRepo{polls: make(map[uuid.UUID]domain.Poll)}
	for _, p := range polls {
		r.polls[p.ID] = *p
	}
	return r
}

func (r *fakePollRepo) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.polls[poll.ID] = *poll
	return nil
}

func (r *fakePollRepo) Update(_ context.Context, poll *domain.Poll, replaceQuestions bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[poll.ID]; !ok {
		return domain.ErrPollNotFound
	}
	r.replacedQuestions = replaceQuestions
	r.polls[poll.ID] = *poll
	return nil
}

func (r *fakePollRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

func (r *fakePollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return &p, nil
}

func (r *fakePollRepo) ListActive(_ context.Context) ([]domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Poll
	for _, p := range r.polls {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, r.err
}

func (r *fakePollRepo) Search(_ context.Context, filter ports.PollFilter) ([]domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	var out []domain.Poll
	for _, p := range r.polls {
		out = append(out, p)
	}
	return out, r.err
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses []domain.Response
	// saveErr is returned by Save instead of storing the response.
	saveErr error
	// afterList runs once, right after the next ListByPoll returns its snapshot.
	afterList func()
}

func (r *fakeResponseRepo) Save(_ context.Context, response *domain.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, existing := range r.responses {
		if existing.PollID == response.PollID && existing.Voter.String() == response.Voter.String() {
			return domain.ErrAlreadyVoted
		}
	}
	r.responses = append(r.responses, *response)
	return nil
}

func (r *fakeResponseRepo) HasResponded(_ context.Context, pollID uuid.UUID, voter domain.VoterIdentity) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.responses {
		if existing.PollID == pollID && existing.Voter.String() == voter.String() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeResponseRepo) ListByPoll(_ context.Context, pollID uuid.UUID) ([]domain.Response, error) {
	out := r.snapshot(pollID)

	r.mu.Lock()
	hook := r.afterList
	r.afterList = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *fakeResponseRepo) CountByPoll(_ context.Context, pollID uuid.UUID) (int64, error) {
	return int64(len(r.snapshot(pollID))), nil
}

func (r *fakeResponseRepo) snapshot(pollID uuid.UUID) []domain.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Response
	for _, existing := range r.responses {
		if existing.PollID == pollID {
			out = append(out, existing)
		}
	}
	return out
}

type fakeUserRepo struct {
	users      map[uuid.UUID]domain.User
	lastFilter ports.UserFilter
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.User, error) {
	out := make(map[uuid.UUID]domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context, filter ports.UserFilter) ([]domain.User, error) {
	r.lastFilter = filter
	var out []domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(r.users), nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]domain.PollResults
	invalidated []uuid.UUID
	err         error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[uuid.UUID]domain.PollResults)}
}

func (c *fakeCache) Get(_ context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	r, ok := c.entries[pollID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (c *fakeCache) Set(_ context.Context, results *domain.PollResults) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[results.PollID] = *results
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, pollID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, pollID)
	delete(c.entries, pollID)
	return c.err
}

type memoryStore struct {
	values map[string]string
	writes int
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.writes++
	return nil
}
