package models

import "time"

const (
	AchievementCategoryMilestone    = "milestone"
	AchievementCategoryProductivity = "productivity"
	AchievementCategoryConsistency  = "consistency"
)

type RequirementKind string

const (
	RequirementGoalsCreated   RequirementKind = "goals_created"
	RequirementHabitsCreated  RequirementKind = "habits_created"
	RequirementGoalsCompleted RequirementKind = "goals_completed"
	RequirementStreakDays     RequirementKind = "streak_days"
)

func (kind RequirementKind) Valid() bool {
	switch kind {
	case RequirementGoalsCreated, RequirementHabitsCreated, RequirementGoalsCompleted, RequirementStreakDays:
		return true
	default:
		return false
	}
}

// Requirement is satisfied once the observed count for Kind reaches Count.
type Requirement struct {
	Kind  RequirementKind `gorm:"column:requirement_kind;not null" yaml:"kind" json:"kind"`
	Count int             `gorm:"column:requirement_count;not null" yaml:"count" json:"count"`
}

func (requirement Requirement) SatisfiedBy(kind RequirementKind, observed int) bool {
	return requirement.Kind == kind && requirement.Count <= observed
}

type Achievement struct {
	ID          string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string      `gorm:"uniqueIndex;not null" json:"name"`
	Description string      `gorm:"not null;default:''" json:"description"`
	Icon        string      `gorm:"not null;default:''" json:"icon"`
	Category    string      `gorm:"not null" json:"category"`
	Requirement Requirement `gorm:"embedded" json:"requirement"`
	FlwyReward  int64       `gorm:"not null;default:0" json:"flwyReward"`
	IsActive    bool        `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex:uidx_user_achievement;type:varchar(36)" json:"userId"`
	AchievementID string    `gorm:"not null;uniqueIndex:uidx_user_achievement;type:varchar(36)" json:"achievementId"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlockedAt"`
}
