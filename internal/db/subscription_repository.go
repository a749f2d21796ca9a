package db

import (
	"time"

	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	database *gorm.DB
}

func NewSubscriptionRepository(database *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{database: database}
}

func (repo *SubscriptionRepository) FindByUser(userID string) (models.Subscription, bool, error) {
	return firstOrMissing[models.Subscription](repo.database.Where("user_id = ?", userID))
}

func (repo *SubscriptionRepository) Create(subscription *models.Subscription) error {
	ensureID(&subscription.ID)
	return repo.database.Create(subscription).Error
}

func (repo *SubscriptionRepository) CancelEnded(now time.Time) (int64, error) {
	result := repo.database.Model(&models.Subscription{}).
		Where("status = ? AND cancel_at_period_end = ? AND current_period_end IS NOT NULL AND current_period_end < ?",
			models.SubscriptionActive, true, now).
		Updates(map[string]any{
			"status":     models.SubscriptionCanceled,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
