package domain

import "time"

type Status string

const (
	StatusActive     Status = "active"
	StatusEnded      Status = "ended"
	StatusNotStarted Status = "not_started"
)

// StatusAt classifies the poll at instant now. A future start wins over
// every other field, then a past end, then the active flag.
func (p *Poll) StatusAt(now time.Time) Status {
	switch {
	case p.StartsAt != nil && p.StartsAt.After(now):
		return StatusNotStarted
	case p.EndsAt != nil && p.EndsAt.Before(now):
		return StatusEnded
	case p.IsActive:
		return StatusActive
	default:
		return StatusEnded
	}
}

func (p *Poll) CanVoteAt(now time.Time) bool {
	return p.StatusAt(now) == StatusActive
}

// EnsureVotable returns an ErrPollNotVotable error describing why the
// poll is closed, or nil when it accepts votes.
func (p *Poll) EnsureVotable(now time.Time) error {
	switch p.StatusAt(now) {
	case StatusActive:
		return nil
	case StatusNotStarted:
		return ErrPollNotStarted
	default:
		if p.EndsAt != nil && p.EndsAt.Before(now) {
			return ErrPollEnded
		}
		return ErrPollNotVotable
	}
}

// OpenPolls keeps the polls that accept votes at now, in their original order.
func OpenPolls(polls []Poll, now time.Time) []Poll {
	out := make([]Poll, 0, len(polls))
	for _, p := range polls {
		if p.CanVoteAt(now) {
			out = append(out, p)
		}
	}
	return out
}
