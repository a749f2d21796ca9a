package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/flowy/internal/models"
)

const defaultLedgerPageSize = 50

type RewardsOverview struct {
	Balance   int64               `json:"balance"`
	Available []models.Reward     `json:"availableRewards"`
	Redeemed  []models.UserReward `json:"userRewards"`
}

type TokenSummary struct {
	Balance      int64              `json:"balance"`
	Transactions []models.FlwyToken `json:"transactions"`
}

type RedeemResult struct {
	Redemption models.UserReward `json:"userReward"`
	Balance    int64             `json:"newBalance"`
}

type RewardService struct {
	runner accrualRunner
	engine *AccrualEngine
}

func NewRewardService(store Store, locker UserLocker, engine *AccrualEngine) *RewardService {
	return &RewardService{runner: newAccrualRunner(store, locker), engine: engine}
}

// Overview lists active rewards the user has not redeemed yet, cheapest first.
func (service *RewardService) Overview(userID string) (RewardsOverview, error) {
	overview := RewardsOverview{}
	err := service.runner.read("load rewards", func(repos StoreRepositories) error {
		balance, err := repos.Ledger.Balance(userID)
		if err != nil {
			return err
		}
		active, err := repos.Rewards.ListActive()
		if err != nil {
			return err
		}
		redeemed, err := repos.Rewards.ListRedeemed(userID)
		if err != nil {
			return err
		}

		redeemedIDs := make(map[string]struct{}, len(redeemed))
		for _, redemption := range redeemed {
			redeemedIDs[redemption.RewardID] = struct{}{}
		}
		available := make([]models.Reward, 0, len(active))
		for _, reward := range active {
			if _, done := redeemedIDs[reward.ID]; done {
				continue
			}
			available = append(available, reward)
		}
		sort.SliceStable(available, func(i, j int) bool {
			return available[i].FlwyCost < available[j].FlwyCost
		})

		overview = RewardsOverview{Balance: balance, Available: available, Redeemed: redeemed}
		return nil
	})
	return overview, err
}

func (service *RewardService) Redeem(userID string, rewardID string, now time.Time) (RedeemResult, error) {
	var result RedeemResult
	err := service.runner.forUser("redeem reward", userID, func(repos StoreRepositories) error {
		redemption, err := service.engine.RedeemReward(repos, userID, rewardID, now)
		if err != nil {
			return err
		}
		balance, err := repos.Ledger.Balance(userID)
		if err != nil {
			return err
		}
		result = RedeemResult{Redemption: redemption, Balance: balance}
		return nil
	})
	return result, err
}

func (service *RewardService) Tokens(userID string, limit int) (TokenSummary, error) {
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	summary := TokenSummary{}
	err := service.runner.read("load tokens", func(repos StoreRepositories) error {
		balance, err := repos.Ledger.Balance(userID)
		if err != nil {
			return err
		}
		entries, err := repos.Ledger.ListByUser(userID, limit)
		if err != nil {
			return err
		}
		summary = TokenSummary{Balance: balance, Transactions: entries}
		return nil
	})
	return summary, err
}
