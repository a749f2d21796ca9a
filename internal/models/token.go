package models

import "time"

const (
	TokenSourceGoal        = "goal"
	TokenSourceStreak      = "streak"
	TokenSourceAchievement = "achievement"
	TokenSourcePurchase    = "purchase"
	TokenSourceReferral    = "referral"
)

// FlwyToken is one append-only ledger entry. Positive amounts are earned,
// negative amounts are spent. AwardKey, when set, is unique per user.
type FlwyToken struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"not null;index;uniqueIndex:uidx_token_award_key;type:varchar(36)" json:"userId"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Source      string    `gorm:"not null" json:"source"`
	SourceID    string    `gorm:"not null;default:''" json:"sourceId"`
	AwardKey    *string   `gorm:"uniqueIndex:uidx_token_award_key" json:"awardKey"`
	Description string    `gorm:"not null;default:''" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
