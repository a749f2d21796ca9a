package models

import "time"

const (
	PlanFree    = "free"
	PlanPremium = "premium"

	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
	SubscriptionTrialing = "trialing"
)

type Subscription struct {
	ID                string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID            string     `gorm:"uniqueIndex;not null;type:varchar(36)" json:"userId"`
	Plan              string     `gorm:"not null;default:free" json:"plan"`
	Status            string     `gorm:"not null;default:active" json:"status"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool       `gorm:"not null;default:false" json:"cancelAtPeriodEnd"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// IsPremiumActive reports whether premium limits apply. A free plan with an
// active status is still free.
func (subscription Subscription) IsPremiumActive() bool {
	return subscription.Plan == PlanPremium && subscription.Status == SubscriptionActive
}
