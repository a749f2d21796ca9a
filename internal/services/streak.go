package services

import (
	"math"
	"time"

	"github.com/terraincognita07/flowy/internal/models"
)

// StreakWindow is the number of most recent completions read for a streak.
const StreakWindow = 365

// ComputeStreak walks completions newest first. A record extends the streak
// while the whole days between now and its date do not exceed the streak
// counted so far; the first record that fails ends the walk. Records that are
// not marked completed are ignored.
func ComputeStreak(completions []models.HabitCompletion, now time.Time) int {
	streak := 0
	for _, completion := range completions {
		if !completion.Completed {
			continue
		}
		diffDays := int(math.Floor(float64(now.Sub(completion.Date)) / float64(24*time.Hour)))
		if diffDays > streak {
			break
		}
		streak++
	}
	return streak
}

func IsStreakMilestone(streak int) bool {
	return streak > 0 && streak%7 == 0
}
