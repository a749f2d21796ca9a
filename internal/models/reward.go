package models

import "time"

type Reward struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"not null;default:''" json:"description"`
	Icon        string    `gorm:"not null;default:''" json:"icon"`
	FlwyCost    int64     `gorm:"not null" json:"flwyCost"`
	Category    string    `gorm:"not null;default:''" json:"category"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UserReward struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string    `gorm:"not null;uniqueIndex:uidx_user_reward;type:varchar(36)" json:"userId"`
	RewardID   string    `gorm:"not null;uniqueIndex:uidx_user_reward;type:varchar(36)" json:"rewardId"`
	RedeemedAt time.Time `gorm:"not null" json:"redeemedAt"`
	Reward     Reward    `gorm:"foreignKey:RewardID" json:"reward"`
}
