package models

import "time"

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusPaused    = "paused"
)

type Goal struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string     `gorm:"not null;index;type:varchar(36)" json:"userId"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"not null;default:''" json:"description"`
	Target      float64    `gorm:"not null" json:"target"`
	Current     float64    `gorm:"column:current_value;not null;default:0" json:"current"`
	Unit        string     `gorm:"not null;default:''" json:"unit"`
	Category    string     `gorm:"not null;default:''" json:"category"`
	Status      string     `gorm:"not null;default:active;index" json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func IsValidGoalStatus(status string) bool {
	switch status {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused:
		return true
	default:
		return false
	}
}
