package models

import "time"

const (
	ReferralPending   = "pending"
	ReferralCompleted = "completed"
	ReferralRewarded  = "rewarded"
)

type Referral struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ReferrerID  string     `gorm:"not null;index;uniqueIndex:uidx_referral_pair;type:varchar(36)" json:"referrerId"`
	ReferredID  string     `gorm:"not null;uniqueIndex;uniqueIndex:uidx_referral_pair;type:varchar(36)" json:"referredId"`
	Status      string     `gorm:"not null;default:pending" json:"status"`
	FlwyReward  int64      `gorm:"not null;default:0" json:"flwyReward"`
	CompletedAt *time.Time `json:"completedAt"`
	RewardedAt  *time.Time `json:"rewardedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
