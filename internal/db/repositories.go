package db

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repositories struct {
	database      *gorm.DB
	Users         *UserRepository
	Subscriptions *SubscriptionRepository
	Goals         *GoalRepository
	Habits        *HabitRepository
	Achievements  *AchievementRepository
	Ledger        *LedgerRepository
	Rewards       *RewardRepository
	Referrals     *ReferralRepository
	Usage         *UsageRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		database:      database,
		Users:         NewUserRepository(database),
		Subscriptions: NewSubscriptionRepository(database),
		Goals:         NewGoalRepository(database),
		Habits:        NewHabitRepository(database),
		Achievements:  NewAchievementRepository(database),
		Ledger:        NewLedgerRepository(database),
		Rewards:       NewRewardRepository(database),
		Referrals:     NewReferralRepository(database),
		Usage:         NewUsageRepository(database),
	}
}

// Transaction runs fn with every repository bound to one database transaction.
func (repositories *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return repositories.database.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
