package db

import (
	"time"

	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRepository struct {
	database *gorm.DB
}

func NewRewardRepository(database *gorm.DB) *RewardRepository {
	return &RewardRepository{database: database}
}

func (repo *RewardRepository) FindByID(rewardID string) (models.Reward, bool, error) {
	return firstOrMissing[models.Reward](repo.database.Where("id = ?", rewardID))
}

func (repo *RewardRepository) ListActive() ([]models.Reward, error) {
	rewards := make([]models.Reward, 0)
	err := repo.database.
		Where("is_active = ?", true).
		Order("flwy_cost ASC, name ASC").
		Find(&rewards).Error
	return rewards, err
}

func (repo *RewardRepository) ListRedeemed(userID string) ([]models.UserReward, error) {
	redeemed := make([]models.UserReward, 0)
	err := repo.database.
		Preload("Reward").
		Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Find(&redeemed).Error
	return redeemed, err
}

func (repo *RewardRepository) HasRedeemed(userID string, rewardID string) (bool, error) {
	var count int64
	err := repo.database.Model(&models.UserReward{}).
		Where("user_id = ? AND reward_id = ?", userID, rewardID).
		Count(&count).Error
	return count > 0, err
}

func (repo *RewardRepository) CreateRedemption(redemption *models.UserReward) (bool, error) {
	ensureID(&redemption.ID)
	result := repo.database.Omit("Reward").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "reward_id"}},
		DoNothing: true,
	}).Create(redemption)
	return result.RowsAffected == 1, result.Error
}

func (repo *RewardRepository) UpsertByName(reward *models.Reward) error {
	ensureID(&reward.ID)
	now := time.Now().UTC()
	reward.CreatedAt = now
	reward.UpdatedAt = now
	if err := repo.database.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "icon", "flwy_cost", "category", "is_active", "updated_at",
		}),
	}).Create(reward).Error; err != nil {
		return err
	}
	return repo.reloadReward(reward)
}

// reloadReward replaces reward with the stored row; on conflict the generated ID
// was never written.
func (repo *RewardRepository) reloadReward(reward *models.Reward) error {
	var stored models.Reward
	if err := repo.database.Where("name = ?", reward.Name).First(&stored).Error; err != nil {
		return err
	}
	*reward = stored
	return nil
}
