package db

import (
	"time"

	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	database *gorm.DB
}

func NewAchievementRepository(database *gorm.DB) *AchievementRepository {
	return &AchievementRepository{database: database}
}

func (repo *AchievementRepository) ListActive() ([]models.Achievement, error) {
	achievements := make([]models.Achievement, 0)
	err := repo.database.
		Where("is_active = ?", true).
		Order("requirement_count ASC, name ASC").
		Find(&achievements).Error
	return achievements, err
}

func (repo *AchievementRepository) ListUnlocked(userID string) ([]models.UserAchievement, error) {
	unlocked := make([]models.UserAchievement, 0)
	err := repo.database.
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&unlocked).Error
	return unlocked, err
}

// CreateUnlock reports false when the user already holds the achievement.
func (repo *AchievementRepository) CreateUnlock(unlock *models.UserAchievement) (bool, error) {
	ensureID(&unlock.ID)
	result := repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(unlock)
	return result.RowsAffected == 1, result.Error
}

func (repo *AchievementRepository) UpsertByName(achievement *models.Achievement) error {
	ensureID(&achievement.ID)
	now := time.Now().UTC()
	achievement.CreatedAt = now
	achievement.UpdatedAt = now
	if err := repo.database.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "icon", "category", "requirement_kind", "requirement_count",
			"flwy_reward", "is_active", "updated_at",
		}),
	}).Create(achievement).Error; err != nil {
		return err
	}
	return repo.reloadAchievement(achievement)
}

// reloadAchievement replaces achievement with the stored row; on conflict the generated ID
// was never written.
func (repo *AchievementRepository) reloadAchievement(achievement *models.Achievement) error {
	var stored models.Achievement
	if err := repo.database.Where("name = ?", achievement.Name).First(&stored).Error; err != nil {
		return err
	}
	*achievement = stored
	return nil
}
