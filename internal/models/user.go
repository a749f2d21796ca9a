package models

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null;default:''" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	ReferralCode *string   `gorm:"uniqueIndex" json:"referralCode"`
	ReferredByID *string   `gorm:"type:varchar(36)" json:"referredById"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (user User) HasReferrer() bool {
	return user.ReferredByID != nil && *user.ReferredByID != ""
}
