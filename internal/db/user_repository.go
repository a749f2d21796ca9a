package db

import (
	"errors"

	"github.com/terraincognita07/flowy/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID string) (models.User, bool, error) {
	return firstOrMissing[models.User](repo.database.Where("id = ?", userID))
}

func (repo *UserRepository) FindByEmail(email string) (models.User, bool, error) {
	return firstOrMissing[models.User](repo.database.Where("lower(email) = lower(?)", email))
}

func (repo *UserRepository) FindByReferralCode(code string) (models.User, bool, error) {
	return firstOrMissing[models.User](repo.database.Where("referral_code = ?", code))
}

func (repo *UserRepository) Create(user *models.User) error {
	ensureID(&user.ID)
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdatePassword(userID string, passwordHash string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

// SetReferralCode stores code only when the user has none yet. It reports
// false when another request set a code first or the code is taken.
func (repo *UserRepository) SetReferralCode(userID string, code string) (bool, error) {
	var taken int64
	if err := repo.database.Model(&models.User{}).Where("referral_code = ?", code).Count(&taken).Error; err != nil {
		return false, err
	}
	if taken > 0 {
		return false, nil
	}

	result := repo.database.Model(&models.User{}).
		Where("id = ? AND referral_code IS NULL", userID).
		Update("referral_code", code)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetReferredBy sets the referrer once; it reports false when one is already set.
func (repo *UserRepository) SetReferredBy(userID string, referrerID string) (bool, error) {
	result := repo.database.Model(&models.User{}).
		Where("id = ? AND referred_by_id IS NULL", userID).
		Update("referred_by_id", referrerID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func firstOrMissing[T any](query *gorm.DB) (T, bool, error) {
	var record T
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			var zero T
			return zero, false, nil
		}
		var zero T
		return zero, false, err
	}
	return record, true, nil
}
