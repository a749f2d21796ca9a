package services

import (
	"time"

	"github.com/terraincognita07/flowy/internal/models"
)

type AchievementStatus struct {
	models.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

type AchievementService struct {
	runner accrualRunner
}

func NewAchievementService(store Store) *AchievementService {
	return &AchievementService{runner: newAccrualRunner(store, nil)}
}

func (service *AchievementService) ListForUser(userID string) ([]AchievementStatus, error) {
	var statuses []AchievementStatus
	err := service.runner.read("list achievements", func(repos StoreRepositories) error {
		catalog, err := repos.Achievements.ListActive()
		if err != nil {
			return err
		}
		unlocks, err := repos.Achievements.ListUnlocked(userID)
		if err != nil {
			return err
		}

		unlockedAt := make(map[string]time.Time, len(unlocks))
		for _, unlock := range unlocks {
			unlockedAt[unlock.AchievementID] = unlock.UnlockedAt
		}

		statuses = make([]AchievementStatus, 0, len(catalog))
		for _, achievement := range catalog {
			status := AchievementStatus{Achievement: achievement}
			if at, ok := unlockedAt[achievement.ID]; ok {
				at := at
				status.Unlocked = true
				status.UnlockedAt = &at
			}
			statuses = append(statuses, status)
		}
		return nil
	})
	return statuses, err
}
