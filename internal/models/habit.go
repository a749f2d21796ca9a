package models

import "time"

const (
	HabitFrequencyDaily   = "daily"
	HabitFrequencyWeekly  = "weekly"
	HabitFrequencyMonthly = "monthly"
)

type Habit struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string    `gorm:"not null;index;type:varchar(36)" json:"userId"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `gorm:"not null;default:''" json:"description"`
	Frequency     string    `gorm:"not null;default:daily" json:"frequency"`
	TargetCount   int       `gorm:"not null;default:1" json:"targetCount"`
	CurrentStreak int       `gorm:"not null;default:0" json:"currentStreak"`
	BestStreak    int       `gorm:"not null;default:0" json:"bestStreak"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HabitCompletion is unique per (habit, calendar day). Date is always the
// start of the day in UTC.
type HabitCompletion struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	HabitID   string    `gorm:"not null;uniqueIndex:uidx_habit_completion_day;type:varchar(36)" json:"habitId"`
	Date      time.Time `gorm:"not null;uniqueIndex:uidx_habit_completion_day" json:"date"`
	Completed bool      `gorm:"not null" json:"completed"`
	Count     int       `gorm:"not null;default:1" json:"count"`
	Notes     string    `gorm:"not null;default:''" json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func IsValidHabitFrequency(frequency string) bool {
	switch frequency {
	case HabitFrequencyDaily, HabitFrequencyWeekly, HabitFrequencyMonthly:
		return true
	default:
		return false
	}
}
