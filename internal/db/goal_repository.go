package db

import (
	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
)

type GoalRepository struct {
	database *gorm.DB
}

func NewGoalRepository(database *gorm.DB) *GoalRepository {
	return &GoalRepository{database: database}
}

func (repo *GoalRepository) FindByUser(userID string, goalID string) (models.Goal, bool, error) {
	return firstOrMissing[models.Goal](repo.database.Where("id = ? AND user_id = ?", goalID, userID))
}

func (repo *GoalRepository) ListByUser(userID string) ([]models.Goal, error) {
	goals := make([]models.Goal, 0)
	err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

func (repo *GoalRepository) Create(goal *models.Goal) error {
	ensureID(&goal.ID)
	return repo.database.Create(goal).Error
}

func (repo *GoalRepository) Save(goal *models.Goal) error {
	return repo.database.Save(goal).Error
}

func (repo *GoalRepository) Delete(userID string, goalID string) (bool, error) {
	result := repo.database.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{})
	return result.RowsAffected > 0, result.Error
}

func (repo *GoalRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := repo.database.Model(&models.Goal{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (repo *GoalRepository) CountCompletedByUser(userID string) (int64, error) {
	var count int64
	err := repo.database.Model(&models.Goal{}).
		Where("user_id = ? AND status = ?", userID, models.GoalStatusCompleted).
		Count(&count).Error
	return count, err
}
