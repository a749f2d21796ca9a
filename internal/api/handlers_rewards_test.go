package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/flowy/internal/models"
)

func (env *testEnv) rewardID(t *testing.T, name string) string {
	t.Helper()

	reward := models.Reward{}
	if err := env.database.Where("name = ?", name).First(&reward).Error; err != nil {
		t.Fatalf("load reward %s: %v", name, err)
	}
	return reward.ID
}

func TestRedeemRewardRequiresBalanceAndSucceedsOnce(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "rewards@example.com")
	badgeID := env.rewardID(t, "Badge Experto")

	response := env.request(t, http.MethodPost, "/api/rewards/"+badgeID+"/redeem", token, nil)
	assertStatus(t, response, http.StatusBadRequest)
	if message := readAPIError(t, response); message != "Insufficient FLWY tokens" {
		t.Fatalf("expected insufficient balance message, got %q", message)
	}

	var entries int64
	if err := env.database.Model(&models.FlwyToken{}).Where("user_id = ?", userID).Count(&entries).Error; err != nil {
		t.Fatalf("count ledger entries: %v", err)
	}
	if entries != 0 {
		t.Fatalf("expected a rejected redemption to write nothing, got %d entries", entries)
	}

	goalID, _ := env.createGoal(t, token, "Earn tokens")
	response = env.request(t, http.MethodPost, "/api/goals/"+goalID+"/complete", token, nil)
	assertStatus(t, response, http.StatusOK)

	response = env.request(t, http.MethodPost, "/api/rewards/"+badgeID+"/redeem", token, nil)
	assertStatus(t, response, http.StatusOK)
	payload := struct {
		Success    bool  `json:"success"`
		NewBalance int64 `json:"newBalance"`
		UserReward struct {
			RewardID string `json:"rewardId"`
			Reward   struct {
				Name string `json:"name"`
			} `json:"reward"`
		} `json:"userReward"`
	}{}
	decodeJSON(t, response, &payload)
	if !payload.Success || payload.NewBalance != 10 {
		t.Fatalf("expected success with balance 10, got %+v", payload)
	}
	if payload.UserReward.RewardID != badgeID || payload.UserReward.Reward.Name != "Badge Experto" {
		t.Fatalf("unexpected redemption %+v", payload.UserReward)
	}

	response = env.request(t, http.MethodPost, "/api/rewards/"+badgeID+"/redeem", token, nil)
	assertStatus(t, response, http.StatusConflict)

	if balance := env.balance(t, token); balance != 10 {
		t.Fatalf("expected balance 10 after duplicate redemption, got %d", balance)
	}
}

func TestListRewardsHidesRedeemedAndSortsByCost(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "catalog@example.com")

	response := env.request(t, http.MethodGet, "/api/rewards", token, nil)
	assertStatus(t, response, http.StatusOK)
	payload := struct {
		Balance   int64 `json:"balance"`
		Available []struct {
			Name     string `json:"name"`
			FlwyCost int64  `json:"flwyCost"`
		} `json:"availableRewards"`
	}{}
	decodeJSON(t, response, &payload)

	if len(payload.Available) != 9 {
		t.Fatalf("expected 9 rewards, got %d", len(payload.Available))
	}
	for index := 1; index < len(payload.Available); index++ {
		if payload.Available[index].FlwyCost < payload.Available[index-1].FlwyCost {
			t.Fatalf("expected rewards sorted by cost, got %+v", payload.Available)
		}
	}
	if payload.Available[0].Name != "Badge Experto" {
		t.Fatalf("expected cheapest reward first, got %q", payload.Available[0].Name)
	}

	response = env.request(t, http.MethodPost, "/api/rewards/unknown/redeem", token, nil)
	assertStatus(t, response, http.StatusNotFound)
}

func TestListAchievementsMarksUnlocked(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "badges@example.com")
	env.createGoal(t, token, "First")

	response := env.request(t, http.MethodGet, "/api/achievements", token, nil)
	assertStatus(t, response, http.StatusOK)
	payload := struct {
		Achievements []struct {
			Name     string `json:"name"`
			Unlocked bool   `json:"unlocked"`
		} `json:"achievements"`
	}{}
	decodeJSON(t, response, &payload)

	if len(payload.Achievements) != 8 {
		t.Fatalf("expected 8 achievements, got %d", len(payload.Achievements))
	}
	for _, achievement := range payload.Achievements {
		expected := achievement.Name == "Primer Paso"
		if achievement.Unlocked != expected {
			t.Fatalf("achievement %s: expected unlocked=%v", achievement.Name, expected)
		}
	}
}
