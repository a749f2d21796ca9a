package services

import (
	"github.com/terraincognita07/flowy/internal/logger"
	"github.com/terraincognita07/flowy/internal/models"
)

type CatalogService struct {
	runner accrualRunner
}

func NewCatalogService(store Store) *CatalogService {
	return &CatalogService{runner: newAccrualRunner(store, nil)}
}

// Seed inserts or refreshes catalog rows by name. Rows missing from the
// input are left alone so historical unlocks and redemptions keep resolving.
func (service *CatalogService) Seed(achievements []models.Achievement, rewards []models.Reward) error {
	err := service.runner.read("seed catalog", func(repos StoreRepositories) error {
		for index := range achievements {
			if err := repos.Achievements.UpsertByName(&achievements[index]); err != nil {
				return err
			}
		}
		for index := range rewards {
			if err := repos.Rewards.UpsertByName(&rewards[index]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.WithField("achievements", len(achievements)).
		WithField("rewards", len(rewards)).
		Info("catalog seeded")
	return nil
}
