// Package analytics derives time-series and completion statistics from a
// content tree. Everything here is a pure function over a borrowed tree:
// no state, no mutation, safe to recompute on demand.
package analytics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YannKr/studyportal/internal/model"
)

// DailyTotal is the studied minutes for one calendar date.
type DailyTotal struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Minutes float64 `json:"minutes"`
}

// DailyTotals groups session events by the calendar date of their start
// timestamp. An event that runs past midnight is attributed entirely to
// its start date.
func DailyTotals(tree *model.ContentTree) []DailyTotal {
	byDate := make(map[string]float64)
	for _, ev := range tree.StudySessions {
		byDate[ev.Date.Format("2006-01-02")] += ev.Duration / 60
	}
	out := make([]DailyTotal, 0, len(byDate))
	for date, minutes := range byDate {
		out = append(out, DailyTotal{Date: date, Minutes: minutes})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WeeklyTotal is the studied minutes for one ISO week.
type WeeklyTotal struct {
	Week    int     `json:"week"`
	Minutes float64 `json:"minutes"`
}

// WeeklyTotals groups session events by the ISO week number of their start
// timestamp. Weeks are keyed by number alone, so the same week of two
// different years lands in one bucket; that matches the persisted history
// this tool has always shown.
func WeeklyTotals(tree *model.ContentTree) []WeeklyTotal {
	byWeek := make(map[int]float64)
	for _, ev := range tree.StudySessions {
		_, week := ev.Date.ISOWeek()
		byWeek[week] += ev.Duration / 60
	}
	out := make([]WeeklyTotal, 0, len(byWeek))
	for week, minutes := range byWeek {
		out = append(out, WeeklyTotal{Week: week, Minutes: minutes})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

// SubjectProgress is the completion summary of one subject.
type SubjectProgress struct {
	Name           string  `json:"name"`
	TotalItems     int     `json:"total_items"`
	CompletedItems int     `json:"completed_items"`
	Percent        float64 `json:"percent"`
}

// SubjectProgressAll reports, per subject, how many items exist and how
// many are finished. An item counts as completed only at exactly 100.
// Subjects are ordered by creation time for display.
func SubjectProgressAll(tree *model.ContentTree) []SubjectProgress {
	names := make([]string, 0, len(tree.Subjects))
	for name := range tree.Subjects {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := tree.Subjects[names[i]], tree.Subjects[names[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return names[i] < names[j]
	})

	out := make([]SubjectProgress, 0, len(names))
	for _, name := range names {
		sub := tree.Subjects[name]
		total := len(sub.Videos) + len(sub.Playlists) + len(sub.Documents)
		completed := 0
		for _, v := range sub.Videos {
			if v.Progress == 100 {
				completed++
			}
		}
		for _, p := range sub.Playlists {
			if p.Progress == 100 {
				completed++
			}
		}
		for _, d := range sub.Documents {
			if d.Progress == 100 {
				completed++
			}
		}
		percent := 0.0
		if total > 0 {
			percent = float64(completed) / float64(total) * 100
		}
		out = append(out, SubjectProgress{
			Name:           name,
			TotalItems:     total,
			CompletedItems: completed,
			Percent:        percent,
		})
	}
	return out
}

// HabitSummary aggregates session habits over the whole event log.
type HabitSummary struct {
	AvgSessionMinutes     float64 `json:"avg_session_minutes"`
	LongestSessionMinutes float64 `json:"longest_session_minutes"`
	MostProductiveDay     string  `json:"most_productive_day"`
	SessionsThisWeek      int     `json:"sessions_this_week"`
}

// Habits summarises session behavior. With no sessions at all it returns
// the zero summary. A tie for most productive day goes to the earliest
// weekday, Sunday first, so the answer is deterministic.
func Habits(tree *model.ContentTree, now time.Time) HabitSummary {
	if len(tree.StudySessions) == 0 {
		return HabitSummary{}
	}

	minutes := make([]float64, len(tree.StudySessions))
	var byWeekday [7]float64
	nowYear, nowWeek := now.ISOWeek()
	thisWeek := 0
	for i, ev := range tree.StudySessions {
		minutes[i] = ev.Duration / 60
		byWeekday[int(ev.Date.Weekday())] += minutes[i]
		y, w := ev.Date.ISOWeek()
		if y == nowYear && w == nowWeek {
			thisWeek++
		}
	}

	best := time.Sunday
	for wd := time.Monday; wd <= time.Saturday; wd++ {
		if byWeekday[wd] > byWeekday[best] {
			best = wd
		}
	}

	return HabitSummary{
		AvgSessionMinutes:     stat.Mean(minutes, nil),
		LongestSessionMinutes: floats.Max(minutes),
		MostProductiveDay:     best.String(),
		SessionsThisWeek:      thisWeek,
	}
}

// Overview is the dashboard headline: raw counts and the running total.
type Overview struct {
	Subjects       int     `json:"subjects"`
	Videos         int     `json:"videos"`
	Playlists      int     `json:"playlists"`
	Documents      int     `json:"documents"`
	Sessions       int     `json:"sessions"`
	TotalStudySecs float64 `json:"total_study_seconds"`
}

func OverviewOf(tree *model.ContentTree) Overview {
	o := Overview{
		Subjects:       len(tree.Subjects),
		Sessions:       len(tree.StudySessions),
		TotalStudySecs: tree.TotalStudyTime,
	}
	for _, sub := range tree.Subjects {
		o.Videos += len(sub.Videos)
		o.Playlists += len(sub.Playlists)
		o.Documents += len(sub.Documents)
	}
	return o
}
