package db

import (
	"time"

	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepository struct {
	database *gorm.DB
}

func NewUsageRepository(database *gorm.DB) *UsageRepository {
	return &UsageRepository{database: database}
}

func (repo *UsageRepository) FindForDay(userID string, feature string, dayStart time.Time, dayEnd time.Time) (models.Usage, bool, error) {
	return firstOrMissing[models.Usage](repo.database.
		Where("user_id = ? AND feature = ? AND date >= ? AND date < ?", userID, feature, dayStart, dayEnd).
		Order("date DESC"))
}

func (repo *UsageRepository) UpsertCount(usage *models.Usage) error {
	ensureID(&usage.ID)
	now := time.Now().UTC()
	usage.CreatedAt = now
	usage.UpdatedAt = now
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "feature"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"count", "updated_at"}),
	}).Create(usage).Error
}

type featureTotal struct {
	Feature string
	Total   int
}

func (repo *UsageRepository) SumByFeatureSince(userID string, since time.Time) (map[string]int, error) {
	rows := make([]featureTotal, 0)
	err := repo.database.Model(&models.Usage{}).
		Select("feature, COALESCE(SUM(count), 0) AS total").
		Where("user_id = ? AND date >= ?", userID, since).
		Group("feature").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.Feature] = row.Total
	}
	return totals, nil
}

func (repo *UsageRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result := repo.database.Where("date < ?", cutoff).Delete(&models.Usage{})
	return result.RowsAffected, result.Error
}
