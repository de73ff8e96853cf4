package domain

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

const AnonymousDisplayName = "Anonymous"

type OptionCount struct {
	OptionID    uuid.UUID `json:"option_id"`
	OptionLabel string    `json:"option_label"`
	ImageURL    string    `json:"image_url,omitempty"`
	Count       int64     `json:"count"`
	Percentage  float64   `json:"percentage"`
}

type RatingBucket struct {
	Value      int     `json:"value"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type VoterInfo struct {
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email"`
	Anonymous   bool    `json:"anonymous"`
}

type TextResponseEntry struct {
	VoterInfo
	Text string `json:"text"`
}

type QuestionResult struct {
	QuestionID          uuid.UUID           `json:"question_id"`
	QuestionTitle       string              `json:"question_title"`
	Type                QuestionType        `json:"type"`
	AnswerCount         int64               `json:"answer_count"`
	OptionCounts        []OptionCount       `json:"option_counts,omitempty"`
	RatingDistribution  []RatingBucket      `json:"rating_distribution,omitempty"`
	AverageRating       *float64            `json:"average_rating,omitempty"`
	TextResponses       []string            `json:"text_responses,omitempty"`
	TextResponseEntries []TextResponseEntry `json:"text_response_entries,omitempty"`
}

type PollResults struct {
	PollID          uuid.UUID        `json:"poll_id"`
	PollTitle       string           `json:"poll_title"`
	TotalResponses  int64            `json:"total_responses"`
	QuestionResults []QuestionResult `json:"question_results"`
	Voters          []VoterInfo      `json:"voters,omitempty"`
}

// Discarded describes a stored answer that aggregation skipped because it
// does not fit its question.
type Discarded struct {
	ResponseID uuid.UUID
	QuestionID uuid.UUID
	Reason     string
}

// Aggregate turns the responses of a poll into per question results.
// Users maps the ids of authenticated voters to their accounts and is only
// consulted when the poll identifies its voters. Answers that do not fit
// their question are skipped and reported in the second return value.
func Aggregate(poll *Poll, responses []Response, users map[uuid.UUID]User) (PollResults, []Discarded) {
	agg := aggregator{
		poll:      poll,
		responses: responses,
		users:     users,
		total:     int64(len(responses)),
	}

	results := PollResults{
		PollID:          poll.ID,
		PollTitle:       poll.Title,
		TotalResponses:  agg.total,
		QuestionResults: []QuestionResult{},
	}
	for _, q := range poll.SortedQuestions() {
		results.QuestionResults = append(results.QuestionResults, agg.question(q))
	}
	if poll.IdentifyVoters {
		results.Voters = make([]VoterInfo, 0, len(responses))
		for _, r := range responses {
			results.Voters = append(results.Voters, agg.voterInfo(r.Voter))
		}
	}
	return results, agg.discarded
}

type aggregator struct {
	poll      *Poll
	responses []Response
	users     map[uuid.UUID]User
	total     int64
	discarded []Discarded
}

func (a *aggregator) discard(r Response, q Question, reason string) {
	a.discarded = append(a.discarded, Discarded{ResponseID: r.ID, QuestionID: q.ID, Reason: reason})
}

func (a *aggregator) question(q Question) QuestionResult {
	res := QuestionResult{
		QuestionID:    q.ID,
		QuestionTitle: q.Title,
		Type:          q.Type,
	}
	for _, r := range a.responses {
		if _, ok := r.Answer(q.ID); ok {
			res.AnswerCount++
		}
	}

	switch {
	case q.Type.IsChoice():
		res.OptionCounts = a.tally(q)
	case q.Type == QuestionRating:
		res.RatingDistribution, res.AverageRating = a.ratings(q)
	case q.Type == QuestionText:
		res.TextResponses, res.TextResponseEntries = a.texts(q)
	}
	return res
}

func (a *aggregator) tally(q Question) []OptionCount {
	counts := make(map[uuid.UUID]int64, len(q.Options))
	count := func(r Response, id uuid.UUID) {
		if !q.HasOption(id) {
			a.discard(r, q, "option "+id.String()+" does not belong to the question")
			return
		}
		counts[id]++
	}

	for _, r := range a.responses {
		ans, ok := r.Answer(q.ID)
		if !ok {
			continue
		}
		switch p := ans.Payload.(type) {
		case OptionChoice:
			count(r, p.OptionID)
		case OptionSet:
			for _, id := range p.OptionIDs {
				count(r, id)
			}
		default:
			a.discard(r, q, "unexpected "+string(ans.Payload.Kind())+" answer")
		}
	}

	out := make([]OptionCount, 0, len(q.Options))
	for _, o := range q.SortedOptions() {
		out = append(out, OptionCount{
			OptionID:    o.ID,
			OptionLabel: o.Label(),
			ImageURL:    o.ImageURL,
			Count:       counts[o.ID],
			Percentage:  percentage(counts[o.ID], a.total),
		})
	}
	return out
}

func (a *aggregator) ratings(q Question) ([]RatingBucket, *float64) {
	var buckets [MaxRating + 1]int64
	var sum float64
	var n int64

	for _, r := range a.responses {
		ans, ok := r.Answer(q.ID)
		if !ok {
			continue
		}
		rating, ok := ans.Payload.(RatingValue)
		if !ok {
			a.discard(r, q, "unexpected "+string(ans.Payload.Kind())+" answer")
			continue
		}
		v := rating.Value
		if v != math.Trunc(v) || v < MinRating || v > MaxRating {
			a.discard(r, q, "rating out of range")
			continue
		}
		buckets[int(v)]++
		sum += v
		n++
	}

	dist := make([]RatingBucket, 0, MaxRating)
	for v := MinRating; v <= MaxRating; v++ {
		dist = append(dist, RatingBucket{
			Value:      v,
			Count:      buckets[v],
			Percentage: percentage(buckets[v], n),
		})
	}
	if n == 0 {
		return dist, nil
	}
	avg := sum / float64(n)
	return dist, &avg
}

func (a *aggregator) texts(q Question) ([]string, []TextResponseEntry) {
	texts := []string{}
	var entries []TextResponseEntry
	if a.poll.IdentifyVoters {
		entries = []TextResponseEntry{}
	}

	for _, r := range a.responses {
		ans, ok := r.Answer(q.ID)
		if !ok {
			continue
		}
		tv, ok := ans.Payload.(TextValue)
		if !ok {
			a.discard(r, q, "unexpected "+string(ans.Payload.Kind())+" answer")
			continue
		}
		text := strings.TrimSpace(tv.Text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		if a.poll.IdentifyVoters {
			entries = append(entries, TextResponseEntry{VoterInfo: a.voterInfo(r.Voter), Text: text})
		}
	}
	return texts, entries
}

func (a *aggregator) voterInfo(v VoterIdentity) VoterInfo {
	if v.IsAnonymous() {
		return VoterInfo{DisplayName: AnonymousDisplayName, Anonymous: true}
	}
	u, ok := a.users[*v.UserID]
	if !ok {
		return VoterInfo{DisplayName: v.UserID.String()}
	}
	email := u.Email
	return VoterInfo{DisplayName: u.DisplayName(), Email: &email}
}

func percentage(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(count) / float64(total)
}
