package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/YannKr/studyportal/internal/model"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func treeWithSessions(events ...model.SessionEvent) *model.ContentTree {
	tree := model.NewContentTree()
	tree.StudySessions = events
	return tree
}

func TestDailyTotalsGroupsByStartDate(t *testing.T) {
	tree := treeWithSessions(
		model.SessionEvent{Date: day(2026, 3, 2, 9), Duration: 600},
		model.SessionEvent{Date: day(2026, 3, 2, 20), Duration: 300},
		model.SessionEvent{Date: day(2026, 3, 3, 8), Duration: 120},
	)

	got := DailyTotals(tree)
	assert.Equal(t, []DailyTotal{
		{Date: "2026-03-02", Minutes: 15},
		{Date: "2026-03-03", Minutes: 2},
	}, got)
}

// An event that starts before midnight and runs past it belongs entirely
// to its start date.
func TestDailyTotalsAttributesToStartDate(t *testing.T) {
	tree := treeWithSessions(
		model.SessionEvent{Date: time.Date(2026, 3, 2, 23, 50, 0, 0, time.UTC), Duration: 1200},
	)
	got := DailyTotals(tree)
	assert.Len(t, got, 1)
	assert.Equal(t, "2026-03-02", got[0].Date)
	assert.Equal(t, 20.0, got[0].Minutes)
}

func TestDailyTotalsEmpty(t *testing.T) {
	assert.Empty(t, DailyTotals(model.NewContentTree()))
}

func TestWeeklyTotals(t *testing.T) {
	// 2026-01-05 is the Monday of ISO week 2; 2026-01-12 starts week 3
	tree := treeWithSessions(
		model.SessionEvent{Date: day(2026, 1, 5, 10), Duration: 600},
		model.SessionEvent{Date: day(2026, 1, 7, 10), Duration: 600},
		model.SessionEvent{Date: day(2026, 1, 12, 10), Duration: 60},
	)

	got := WeeklyTotals(tree)
	assert.Equal(t, []WeeklyTotal{
		{Week: 2, Minutes: 20},
		{Week: 3, Minutes: 1},
	}, got)
}

func TestSubjectProgress(t *testing.T) {
	tree := model.NewContentTree()
	tree.Subjects["Math"] = &model.Subject{
		CreatedAt: day(2026, 1, 1, 0),
		Videos: []model.VideoItem{
			{ItemID: "a", Progress: 100},
			{ItemID: "b", Progress: 99},
		},
		Playlists: []model.PlaylistItem{{ItemID: "c", Progress: 100}},
		Documents: []model.DocumentItem{{ItemID: "d", Progress: 0}},
	}
	tree.Subjects["Empty"] = &model.Subject{CreatedAt: day(2026, 1, 2, 0)}

	got := SubjectProgressAll(tree)
	assert.Equal(t, []SubjectProgress{
		{Name: "Math", TotalItems: 4, CompletedItems: 2, Percent: 50},
		{Name: "Empty", TotalItems: 0, CompletedItems: 0, Percent: 0},
	}, got)

	for _, sp := range got {
		assert.GreaterOrEqual(t, sp.Percent, 0.0)
		assert.LessOrEqual(t, sp.Percent, 100.0)
	}
}

func TestHabitsEmpty(t *testing.T) {
	got := Habits(model.NewContentTree(), time.Now())
	assert.Zero(t, got)
}

func TestHabits(t *testing.T) {
	now := day(2026, 3, 4, 12) // Wednesday, ISO week 10
	tree := treeWithSessions(
		model.SessionEvent{Date: day(2026, 3, 2, 9), Duration: 600},  // Monday, week 10
		model.SessionEvent{Date: day(2026, 3, 2, 20), Duration: 1200}, // Monday, week 10
		model.SessionEvent{Date: day(2026, 2, 24, 9), Duration: 300}, // Tuesday, week 9
	)

	got := Habits(tree, now)
	assert.InDelta(t, (10.0+20.0+5.0)/3.0, got.AvgSessionMinutes, 1e-9)
	assert.Equal(t, 20.0, got.LongestSessionMinutes)
	assert.Equal(t, "Monday", got.MostProductiveDay)
	assert.Equal(t, 2, got.SessionsThisWeek)
}

// A tie goes to the earliest weekday, Sunday first.
func TestHabitsTieBreak(t *testing.T) {
	tree := treeWithSessions(
		model.SessionEvent{Date: day(2026, 3, 2, 9), Duration: 600}, // Monday
		model.SessionEvent{Date: day(2026, 3, 1, 9), Duration: 600}, // Sunday
		model.SessionEvent{Date: day(2026, 3, 6, 9), Duration: 600}, // Friday
	)
	got := Habits(tree, day(2026, 3, 7, 0))
	assert.Equal(t, "Sunday", got.MostProductiveDay)
}

func TestOverview(t *testing.T) {
	tree := model.NewContentTree()
	tree.TotalStudyTime = 4200
	tree.StudySessions = []model.SessionEvent{{Date: day(2026, 3, 2, 9), Duration: 4200}}
	tree.Subjects["Math"] = &model.Subject{
		Videos:    []model.VideoItem{{ItemID: "a"}, {ItemID: "b"}},
		Playlists: []model.PlaylistItem{{ItemID: "c"}},
		Documents: []model.DocumentItem{{ItemID: "d"}},
	}

	got := OverviewOf(tree)
	assert.Equal(t, Overview{
		Subjects:       1,
		Videos:         2,
		Playlists:      1,
		Documents:      1,
		Sessions:       1,
		TotalStudySecs: 4200,
	}, got)
}
