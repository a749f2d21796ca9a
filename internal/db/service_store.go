package db

import (
	"github.com/terraincognita07/flowy/internal/services"
	"gorm.io/gorm"
)

type serviceStore struct {
	repositories *Repositories
}

// NewServiceStore exposes the gorm repositories as a services.Store.
func NewServiceStore(database *gorm.DB) services.Store {
	return serviceStore{repositories: NewRepositories(database)}
}

func (store serviceStore) Transaction(fn func(repos services.StoreRepositories) error) error {
	return store.repositories.Transaction(func(tx *Repositories) error {
		return fn(tx.serviceRepositories())
	})
}

func (repositories *Repositories) serviceRepositories() services.StoreRepositories {
	return services.StoreRepositories{
		Users:         repositories.Users,
		Subscriptions: repositories.Subscriptions,
		Goals:         repositories.Goals,
		Habits:        repositories.Habits,
		Achievements:  repositories.Achievements,
		Ledger:        repositories.Ledger,
		Rewards:       repositories.Rewards,
		Referrals:     repositories.Referrals,
		Usage:         repositories.Usage,
	}
}
