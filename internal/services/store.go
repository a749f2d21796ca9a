package services

import (
	"time"

	"github.com/terraincognita07/flowy/internal/models"
)

type UserRepository interface {
	FindByID(userID string) (models.User, bool, error)
	FindByEmail(email string) (models.User, bool, error)
	FindByReferralCode(code string) (models.User, bool, error)
	Create(user *models.User) error
	UpdatePassword(userID string, passwordHash string) error
	SetReferralCode(userID string, code string) (bool, error)
	SetReferredBy(userID string, referrerID string) (bool, error)
}

type SubscriptionRepository interface {
	FindByUser(userID string) (models.Subscription, bool, error)
	Create(subscription *models.Subscription) error
	CancelEnded(now time.Time) (int64, error)
}

type GoalRepository interface {
	FindByUser(userID string, goalID string) (models.Goal, bool, error)
	ListByUser(userID string) ([]models.Goal, error)
	Create(goal *models.Goal) error
	Save(goal *models.Goal) error
	Delete(userID string, goalID string) (bool, error)
	CountByUser(userID string) (int64, error)
	CountCompletedByUser(userID string) (int64, error)
}

type HabitRepository interface {
	FindByUser(userID string, habitID string) (models.Habit, bool, error)
	ListByUser(userID string) ([]models.Habit, error)
	Create(habit *models.Habit) error
	UpdateStreaks(habitID string, currentStreak int, bestStreak int) error
	Delete(userID string, habitID string) (bool, error)
	CountByUser(userID string) (int64, error)
	UpsertCompletion(completion *models.HabitCompletion) error
	ListRecentCompletions(habitID string, limit int) ([]models.HabitCompletion, error)
}

type AchievementRepository interface {
	ListActive() ([]models.Achievement, error)
	ListUnlocked(userID string) ([]models.UserAchievement, error)
	CreateUnlock(unlock *models.UserAchievement) (bool, error)
	UpsertByName(achievement *models.Achievement) error
}

type LedgerRepository interface {
	Append(entry *models.FlwyToken) (bool, error)
	Balance(userID string) (int64, error)
	ListByUser(userID string, limit int) ([]models.FlwyToken, error)
	ListByUserRange(userID string, from *time.Time, to *time.Time) ([]models.FlwyToken, error)
}

type RewardRepository interface {
	FindByID(rewardID string) (models.Reward, bool, error)
	ListActive() ([]models.Reward, error)
	ListRedeemed(userID string) ([]models.UserReward, error)
	HasRedeemed(userID string, rewardID string) (bool, error)
	CreateRedemption(redemption *models.UserReward) (bool, error)
	UpsertByName(reward *models.Reward) error
}

type ReferralRepository interface {
	FindByReferred(referredID string) (models.Referral, bool, error)
	ExistsPair(referrerID string, referredID string) (bool, error)
	Create(referral *models.Referral) (bool, error)
	Save(referral *models.Referral) error
	ListByReferrer(referrerID string) ([]models.Referral, error)
	ListQualifiedPending(limit int) ([]models.Referral, error)
}

type UsageRepository interface {
	FindForDay(userID string, feature string, dayStart time.Time, dayEnd time.Time) (models.Usage, bool, error)
	UpsertCount(usage *models.Usage) error
	SumByFeatureSince(userID string, since time.Time) (map[string]int, error)
	DeleteBefore(cutoff time.Time) (int64, error)
}

// StoreRepositories is the set of repositories bound to one unit of work.
type StoreRepositories struct {
	Users         UserRepository
	Subscriptions SubscriptionRepository
	Goals         GoalRepository
	Habits        HabitRepository
	Achievements  AchievementRepository
	Ledger        LedgerRepository
	Rewards       RewardRepository
	Referrals     ReferralRepository
	Usage         UsageRepository
}

// Store runs fn against repositories bound to a single transaction. A non-nil
// error from fn rolls back every write fn made.
type Store interface {
	Transaction(fn func(repos StoreRepositories) error) error
}
