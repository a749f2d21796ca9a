package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/flowy/internal/models"
)

func completedDays(days ...time.Time) []models.HabitCompletion {
	completions := make([]models.HabitCompletion, 0, len(days))
	for _, day := range days {
		completions = append(completions, models.HabitCompletion{Date: day, Completed: true})
	}
	return completions
}

func TestComputeStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := today.Add(10 * time.Hour)
	day := func(offset int) time.Time { return today.AddDate(0, 0, -offset) }

	tests := []struct {
		name        string
		completions []models.HabitCompletion
		want        int
	}{
		{name: "no completions", want: 0},
		{name: "today only", completions: completedDays(day(0)), want: 1},
		{name: "three consecutive days", completions: completedDays(day(0), day(1), day(2)), want: 3},
		{name: "gap ends the run", completions: completedDays(day(0), day(2), day(3)), want: 1},
		{name: "yesterday without today", completions: completedDays(day(1), day(2)), want: 0},
		{
			name: "unchecked days are skipped",
			completions: []models.HabitCompletion{
				{Date: day(0), Completed: false},
				{Date: day(1), Completed: true},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStreak(tt.completions, now); got != tt.want {
				t.Fatalf("ComputeStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeStreakNeverExceedsCompletedRecords(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 0, 40)
	for offset := 0; offset < 40; offset++ {
		days = append(days, today.AddDate(0, 0, -offset))
	}

	for count := 0; count <= len(days); count++ {
		got := ComputeStreak(completedDays(days[:count]...), today.Add(23*time.Hour))
		if got != count {
			t.Fatalf("%d consecutive days: got streak %d", count, got)
		}
	}
}

func TestIsStreakMilestone(t *testing.T) {
	for streak, want := range map[int]bool{0: false, 1: false, 6: false, 7: true, 13: false, 14: true, 21: true} {
		if got := IsStreakMilestone(streak); got != want {
			t.Fatalf("IsStreakMilestone(%d) = %v, want %v", streak, got, want)
		}
	}
}
