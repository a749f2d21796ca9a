package db

import (
	"time"

	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository struct {
	database *gorm.DB
}

func NewLedgerRepository(database *gorm.DB) *LedgerRepository {
	return &LedgerRepository{database: database}
}

// Append inserts entry unless the user already has an entry with the same
// award key, in which case it reports false and writes nothing.
func (repo *LedgerRepository) Append(entry *models.FlwyToken) (bool, error) {
	ensureID(&entry.ID)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.AwardKey == nil {
		if err := repo.database.Create(entry).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	result := repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "award_key"}},
		DoNothing: true,
	}).Create(entry)
	return result.RowsAffected == 1, result.Error
}

func (repo *LedgerRepository) Balance(userID string) (int64, error) {
	var balance int64
	err := repo.database.Model(&models.FlwyToken{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&balance).Error
	return balance, err
}

func (repo *LedgerRepository) ListByUser(userID string, limit int) ([]models.FlwyToken, error) {
	entries := make([]models.FlwyToken, 0)
	query := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// ListByUserRange returns entries oldest first within [from, to). Nil bounds
// are open.
func (repo *LedgerRepository) ListByUserRange(userID string, from *time.Time, to *time.Time) ([]models.FlwyToken, error) {
	entries := make([]models.FlwyToken, 0)
	query := repo.database.Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at < ?", *to)
	}
	err := query.Order("created_at ASC, id ASC").Find(&entries).Error
	return entries, err
}
