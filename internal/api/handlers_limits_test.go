package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/flowy/internal/models"
)

type usageResponse struct {
	Error        string `json:"error"`
	Accepted     bool   `json:"accepted"`
	Feature      string `json:"feature"`
	CurrentCount int    `json:"currentCount"`
	Limit        int    `json:"limit"`
	Remaining    int    `json:"remaining"`
	CanUpgrade   bool   `json:"canUpgrade"`
}

func (env *testEnv) incrementUsage(t *testing.T, token string, feature string, by int, expectedStatus int) usageResponse {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/limits", token, map[string]any{
		"feature":   feature,
		"increment": by,
	})
	assertStatus(t, response, expectedStatus)
	payload := usageResponse{}
	decodeJSON(t, response, &payload)
	return payload
}

func TestFreePlanDailyLimit(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "limits@example.com")

	first := env.incrementUsage(t, token, "tasks", 9, http.StatusOK)
	if !first.Accepted || first.CurrentCount != 9 || first.Remaining != 1 {
		t.Fatalf("unexpected first increment %+v", first)
	}

	rejected := env.incrementUsage(t, token, "tasks", 2, http.StatusTooManyRequests)
	if rejected.Error != "Limit exceeded" || rejected.CurrentCount != 9 || rejected.Limit != 10 || rejected.Remaining != 1 || !rejected.CanUpgrade {
		t.Fatalf("unexpected rejection %+v", rejected)
	}

	last := env.incrementUsage(t, token, "tasks", 1, http.StatusOK)
	if last.CurrentCount != 10 || last.Remaining != 0 {
		t.Fatalf("unexpected final increment %+v", last)
	}

	response := env.request(t, http.MethodGet, "/api/limits?feature=tasks", token, nil)
	assertStatus(t, response, http.StatusOK)
	status := usageResponse{}
	decodeJSON(t, response, &status)
	if status.Accepted || status.CurrentCount != 10 || status.Remaining != 0 {
		t.Fatalf("unexpected status %+v", status)
	}

	env.clock.Set(env.clock.Now().Add(24 * time.Hour))
	nextDay := env.incrementUsage(t, token, "tasks", 1, http.StatusOK)
	if nextDay.CurrentCount != 1 {
		t.Fatalf("expected a fresh counter on the next day, got %+v", nextDay)
	}
}

func TestPremiumPlanIsUnlimited(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "premium@example.com")

	if err := env.database.Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Update("plan", models.PlanPremium).Error; err != nil {
		t.Fatalf("upgrade subscription: %v", err)
	}

	result := env.incrementUsage(t, token, "categories", 50, http.StatusOK)
	if !result.Accepted || result.Limit != -1 || result.CanUpgrade {
		t.Fatalf("unexpected premium usage %+v", result)
	}
}

func TestUsageRejectsUnknownFeature(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "unknown@example.com")

	env.incrementUsage(t, token, "storage", 1, http.StatusBadRequest)
	env.incrementUsage(t, token, "tasks", 0, http.StatusBadRequest)

	response := env.request(t, http.MethodGet, "/api/limits", token, nil)
	assertStatus(t, response, http.StatusBadRequest)
}

func TestSubscriptionSummaryReportsUsage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "summary@example.com")
	env.incrementUsage(t, token, "events", 3, http.StatusOK)

	response := env.request(t, http.MethodGet, "/api/subscription", token, nil)
	assertStatus(t, response, http.StatusOK)
	payload := struct {
		Usage  map[string]int `json:"usage"`
		Limits struct {
			Events int `json:"events"`
		} `json:"limits"`
	}{}
	decodeJSON(t, response, &payload)
	if payload.Usage["events"] != 3 || payload.Usage["tasks"] != 0 {
		t.Fatalf("unexpected usage %+v", payload.Usage)
	}
	if payload.Limits.Events != 10 {
		t.Fatalf("expected free events limit 10, got %d", payload.Limits.Events)
	}
}

func TestUsageIncrementFieldSpellings(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "spelling@example.com")

	response := env.request(t, http.MethodPost, "/api/limits", token, map[string]any{"feature": "events", "incrementBy": 3})
	assertStatus(t, response, http.StatusOK)
	payload := usageResponse{}
	decodeJSON(t, response, &payload)
	if payload.CurrentCount != 3 {
		t.Fatalf("expected incrementBy to count 3, got %+v", payload)
	}

	response = env.request(t, http.MethodPost, "/api/limits", token, map[string]any{"feature": "events"})
	assertStatus(t, response, http.StatusOK)
	payload = usageResponse{}
	decodeJSON(t, response, &payload)
	if payload.CurrentCount != 4 {
		t.Fatalf("expected a missing increment to count 1, got %+v", payload)
	}
}

func TestUsagePayloadPrefersIncrement(t *testing.T) {
	two, five := 2, 5
	if got := (usagePayload{Increment: &two, IncrementBy: &five}).amount(); got != 2 {
		t.Fatalf("expected increment to win, got %d", got)
	}
	if got := (usagePayload{}).amount(); got != 1 {
		t.Fatalf("expected default of 1, got %d", got)
	}
}
