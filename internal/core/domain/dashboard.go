package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

const (
	DonutDegrees     = 360.0
	MonthSeriesLimit = 6
	RecentPollsLimit = 5
)

type DashboardStats struct {
	TotalPolls      int `json:"total_polls"`
	ActivePolls     int `json:"active_polls"`
	EndedPolls      int `json:"ended_polls"`
	NotStartedPolls int `json:"not_started_polls"`
	TotalUsers      int `json:"total_users"`
}

type StatusShare struct {
	Status     Status  `json:"status"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DonutSegment struct {
	StatusShare
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

type MonthCount struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

var statusLabels = map[Status]string{
	StatusActive:     "Active",
	StatusEnded:      "Ended",
	StatusNotStarted: "Not started",
}

// Summarize classifies every poll at now and counts them per status.
func Summarize(polls []Poll, now time.Time) DashboardStats {
	stats := DashboardStats{TotalPolls: len(polls)}
	for i := range polls {
		switch polls[i].StatusAt(now) {
		case StatusActive:
			stats.ActivePolls++
		case StatusNotStarted:
			stats.NotStartedPolls++
		default:
			stats.EndedPolls++
		}
	}
	return stats
}

// Breakdown lists the status buckets in display order, including empty
// ones. Percentages never divide by zero.
func (s DashboardStats) Breakdown() []StatusShare {
	total := float64(max(1, s.TotalPolls))
	counts := []struct {
		status Status
		count  int
	}{
		{StatusActive, s.ActivePolls},
		{StatusEnded, s.EndedPolls},
		{StatusNotStarted, s.NotStartedPolls},
	}
	out := make([]StatusShare, 0, len(counts))
	for _, c := range counts {
		out = append(out, StatusShare{
			Status:     c.status,
			Label:      statusLabels[c.status],
			Count:      c.count,
			Percentage: 100 * float64(c.count) / total,
		})
	}
	return out
}

// DonutSegments lays the non empty status buckets around a circle, each
// spanning an angle proportional to its count.
func (s DashboardStats) DonutSegments() []DonutSegment {
	total := float64(max(1, s.TotalPolls))
	var segments []DonutSegment
	angle := 0.0
	for _, share := range s.Breakdown() {
		if share.Count == 0 {
			continue
		}
		end := angle + float64(share.Count)/total*DonutDegrees
		segments = append(segments, DonutSegment{StatusShare: share, StartAngle: angle, EndAngle: end})
		angle = end
	}
	return segments
}

// SeriesByMonth counts polls per creation month in ascending month order and
// keeps the most recent MonthSeriesLimit months that have polls. Polls
// without a creation time count in the month of now.
func SeriesByMonth(polls []Poll, now time.Time) []MonthCount {
	byKey := make(map[string]*MonthCount)
	for _, p := range polls {
		created := p.CreatedAt
		if created.IsZero() {
			created = now
		}
		created = created.UTC()
		key := fmt.Sprintf("%04d-%02d", created.Year(), int(created.Month()))
		mc, ok := byKey[key]
		if !ok {
			mc = &MonthCount{
				Month: key,
				Year:  created.Year(),
				Label: fmt.Sprintf("%s %d", created.Month().String()[:3], created.Year()),
			}
			byKey[key] = mc
		}
		mc.Count++
	}

	series := make([]MonthCount, 0, len(byKey))
	for _, mc := range byKey {
		series = append(series, *mc)
	}
	slices.SortFunc(series, func(a, b MonthCount) int {
		return cmp.Compare(a.Month, b.Month)
	})
	if len(series) > MonthSeriesLimit {
		series = series[len(series)-MonthSeriesLimit:]
	}
	return series
}

// RecentPolls returns up to n polls, newest first.
func RecentPolls(polls []Poll, n int) []Poll {
	out := slices.Clone(polls)
	slices.SortStableFunc(out, func(a, b Poll) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Dashboard is the chart ready view of a poll collection.
type Dashboard struct {
	Stats       DashboardStats `json:"stats"`
	StatusBars  []StatusShare  `json:"status_bars"`
	StatusDonut []DonutSegment `json:"status_donut"`
	ByMonth     []MonthCount   `json:"polls_by_month"`
	RecentPolls []Poll         `json:"recent_polls"`
}

func BuildDashboard(polls []Poll, totalUsers int, now time.Time) Dashboard {
	stats := Summarize(polls, now)
	stats.TotalUsers = totalUsers

	recent := RecentPolls(polls, RecentPollsLimit)
	for i := range recent {
		recent[i].Questions = nil
	}
	return Dashboard{
		Stats:       stats,
		StatusBars:  stats.Breakdown(),
		StatusDonut: stats.DonutSegments(),
		ByMonth:     SeriesByMonth(polls, now),
		RecentPolls: recent,
	}
}
