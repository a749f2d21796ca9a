package api

import (
	"github.com/terraincognita07/flowy/internal/db"
	"github.com/terraincognita07/flowy/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.store = db.NewServiceStore(database)
	handler.buildServices()
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.store == nil {
		if handler.db == nil {
			return
		}
		handler.store = db.NewServiceStore(handler.db)
	}
	if handler.authService == nil {
		handler.buildServices()
	}
}

func (handler *Handler) buildServices() {
	locker := handler.options.Locker
	if locker == nil {
		locker = services.NewLocalUserLocker()
		handler.options.Locker = locker
	}
	referralReward := handler.options.ReferralReward
	if referralReward == 0 {
		referralReward = services.DefaultReferralReward
	}

	handler.engine = services.NewAccrualEngine(referralReward, handler.options.Metrics)
	handler.authService = services.NewAuthService(handler.store, locker, handler.engine)
	handler.goalService = services.NewGoalService(handler.store, locker, handler.engine)
	handler.habitService = services.NewHabitService(handler.store, locker, handler.engine, handler.location)
	handler.achievementService = services.NewAchievementService(handler.store)
	handler.rewardService = services.NewRewardService(handler.store, locker, handler.engine)
	handler.referralService = services.NewReferralService(handler.store, locker, handler.engine, handler.options.AppURL)
	handler.usageService = services.NewUsageService(handler.store, locker, handler.location, handler.options.Metrics)
	handler.exportService = services.NewExportService(handler.store, handler.location)
}

// ReferralService is shared with the background referral sweep.
func (handler *Handler) ReferralService() *services.ReferralService {
	handler.ensureDependencies()
	return handler.referralService
}

// UsageService is shared with the usage maintenance jobs.
func (handler *Handler) UsageService() *services.UsageService {
	handler.ensureDependencies()
	return handler.usageService
}
