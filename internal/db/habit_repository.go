package db

import (
	"time"

	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HabitRepository struct {
	database *gorm.DB
}

func NewHabitRepository(database *gorm.DB) *HabitRepository {
	return &HabitRepository{database: database}
}

func (repo *HabitRepository) FindByUser(userID string, habitID string) (models.Habit, bool, error) {
	return firstOrMissing[models.Habit](repo.database.Where("id = ? AND user_id = ?", habitID, userID))
}

func (repo *HabitRepository) ListByUser(userID string) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&habits).Error
	return habits, err
}

func (repo *HabitRepository) Create(habit *models.Habit) error {
	ensureID(&habit.ID)
	return repo.database.Create(habit).Error
}

func (repo *HabitRepository) UpdateStreaks(habitID string, currentStreak int, bestStreak int) error {
	return repo.database.Model(&models.Habit{}).Where("id = ?", habitID).Updates(map[string]any{
		"current_streak": currentStreak,
		"best_streak":    bestStreak,
		"updated_at":     time.Now().UTC(),
	}).Error
}

func (repo *HabitRepository) Delete(userID string, habitID string) (bool, error) {
	result := repo.database.Where("id = ? AND user_id = ?", habitID, userID).Delete(&models.Habit{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if err := repo.database.Where("habit_id = ?", habitID).Delete(&models.HabitCompletion{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (repo *HabitRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := repo.database.Model(&models.Habit{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// UpsertCompletion writes the (habit, date) row, replacing its state when it
// already exists.
func (repo *HabitRepository) UpsertCompletion(completion *models.HabitCompletion) error {
	ensureID(&completion.ID)
	now := time.Now().UTC()
	completion.CreatedAt = now
	completion.UpdatedAt = now
	if err := repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "habit_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "count", "notes", "updated_at"}),
	}).Create(completion).Error; err != nil {
		return err
	}
	var stored models.HabitCompletion
	if err := repo.database.Where("habit_id = ? AND date = ?", completion.HabitID, completion.Date).First(&stored).Error; err != nil {
		return err
	}
	*completion = stored
	return nil
}

// ListRecentCompletions returns completed days newest first.
func (repo *HabitRepository) ListRecentCompletions(habitID string, limit int) ([]models.HabitCompletion, error) {
	completions := make([]models.HabitCompletion, 0)
	err := repo.database.
		Where("habit_id = ? AND completed = ?", habitID, true).
		Order("date DESC").
		Limit(limit).
		Find(&completions).Error
	return completions, err
}
