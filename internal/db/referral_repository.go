package db

import (
	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReferralRepository struct {
	database *gorm.DB
}

func NewReferralRepository(database *gorm.DB) *ReferralRepository {
	return &ReferralRepository{database: database}
}

func (repo *ReferralRepository) FindByReferred(referredID string) (models.Referral, bool, error) {
	return firstOrMissing[models.Referral](repo.database.Where("referred_id = ?", referredID))
}

func (repo *ReferralRepository) ExistsPair(referrerID string, referredID string) (bool, error) {
	var count int64
	err := repo.database.Model(&models.Referral{}).
		Where("referrer_id = ? AND referred_id = ?", referrerID, referredID).
		Count(&count).Error
	return count > 0, err
}

// Create reports false when the referred user already has a referral.
func (repo *ReferralRepository) Create(referral *models.Referral) (bool, error) {
	ensureID(&referral.ID)
	result := repo.database.Clauses(clause.OnConflict{DoNothing: true}).Create(referral)
	return result.RowsAffected == 1, result.Error
}

func (repo *ReferralRepository) Save(referral *models.Referral) error {
	return repo.database.Save(referral).Error
}

func (repo *ReferralRepository) ListByReferrer(referrerID string) ([]models.Referral, error) {
	referrals := make([]models.Referral, 0)
	err := repo.database.
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, err
}

// ListQualifiedPending returns pending referrals whose referred user already
// completed a goal or a habit day.
func (repo *ReferralRepository) ListQualifiedPending(limit int) ([]models.Referral, error) {
	completedGoal := repo.database.Model(&models.Goal{}).
		Select("1").
		Where("goals.user_id = referrals.referred_id AND goals.status = ?", models.GoalStatusCompleted)
	completedHabitDay := repo.database.Model(&models.HabitCompletion{}).
		Select("1").
		Joins("JOIN habits ON habits.id = habit_completions.habit_id").
		Where("habits.user_id = referrals.referred_id AND habit_completions.completed = ?", true)

	referrals := make([]models.Referral, 0)
	query := repo.database.
		Where("referrals.status = ?", models.ReferralPending).
		Where("(EXISTS (?) OR EXISTS (?))", completedGoal, completedHabitDay).
		Order("referrals.created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&referrals).Error
	return referrals, err
}
